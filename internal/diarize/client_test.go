package diarize

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/scribeflow/backend/internal/transcript"
)

func tempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF fake"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClientDiarize(t *testing.T) {
	var gotDevice, gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDevice = r.FormValue("device")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"segments": [
			{"speaker": "SPEAKER_01", "start": 11.0, "end": 20.0},
			{"speaker": "SPEAKER_00", "start": 0.0, "end": 11.0}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "hf_token")
	turns, err := client.Diarize(context.Background(), tempAudio(t), "cuda")
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}

	if gotPath != "/diarize" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotDevice != "cuda" {
		t.Errorf("device field = %q", gotDevice)
	}
	if gotAuth != "Bearer hf_token" {
		t.Errorf("auth header = %q", gotAuth)
	}

	if len(turns) != 2 {
		t.Fatalf("got %d turns", len(turns))
	}
	if turns[0].Speaker != "SPEAKER_00" || turns[0].Start != 0 {
		t.Errorf("turns not sorted by start: %+v", turns)
	}
}

func TestClientDiarizeServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "")
	_, err := client.Diarize(context.Background(), tempAudio(t), "cpu")
	if !errors.Is(err, transcript.ErrDiarizationUnavailable) {
		t.Errorf("want the diarization sentinel, got %v", err)
	}
}

func TestClientDiarizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Diarize(context.Background(), tempAudio(t), "cpu")
	if !errors.Is(err, transcript.ErrDiarizationUnavailable) {
		t.Errorf("want the diarization sentinel, got %v", err)
	}
}
