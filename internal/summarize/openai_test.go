package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedChat struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, captured *capturedChat, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
}

func TestGenerateSummary(t *testing.T) {
	var captured capturedChat
	srv := chatServer(t, &captured, "A short recap.")
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "")
	got, err := c.Generate(context.Background(), Options{Kind: "summary"}, "Hello world.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "A short recap." {
		t.Errorf("Generate = %q", got)
	}

	if captured.Model != DefaultModel {
		t.Errorf("model = %q, want %q", captured.Model, DefaultModel)
	}
	if captured.MaxTokens != 200 {
		t.Errorf("max_tokens = %d, want 200", captured.MaxTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, "Hello world.") {
		t.Errorf("user prompt missing transcript: %q", captured.Messages[1].Content)
	}
}

func TestGenerateEmailStyle(t *testing.T) {
	var captured capturedChat
	srv := chatServer(t, &captured, "Dear team,")
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "gpt-4o-mini")
	_, err := c.Generate(context.Background(), Options{Kind: "email", EmailStyle: "follow-up"}, "We agreed on Q3 goals.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.MaxTokens != 300 {
		t.Errorf("max_tokens = %d, want 300", captured.MaxTokens)
	}
	if !strings.Contains(captured.Messages[1].Content, "Create a follow-up email") {
		t.Errorf("prompt = %q", captured.Messages[1].Content)
	}
}

func TestGenerateTruncatesLongTranscripts(t *testing.T) {
	var captured capturedChat
	srv := chatServer(t, &captured, "ok")
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "")
	long := strings.Repeat("a", 3000)
	if _, err := c.Generate(context.Background(), Options{Kind: "summary"}, long); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	prompt := captured.Messages[1].Content
	if strings.Contains(prompt, long) {
		t.Error("prompt contains the full transcript")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 2000)+"...") {
		t.Error("prompt missing the truncated transcript")
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	c := NewClient("test-key", "http://unused.invalid", "")
	if _, err := c.Generate(context.Background(), Options{Kind: "haiku"}, "text"); err == nil {
		t.Fatal("expected an error for unknown kind")
	}
}

func TestGenerateMissingKey(t *testing.T) {
	c := NewClient("", "", "")
	if _, err := c.Generate(context.Background(), Options{Kind: "summary"}, "text"); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "")
	_, err := c.Generate(context.Background(), Options{Kind: "minutes"}, "text")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v, want a status 429 error", err)
	}
}

func TestKinds(t *testing.T) {
	want := []string{"blog", "email", "minutes", "summary"}
	got := Kinds()
	if len(got) != len(want) {
		t.Fatalf("Kinds = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
