package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scribeflow/backend/internal/transcript"
)

const openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// DefaultOpenAIModel is used when a request names no model.
const DefaultOpenAIModel = "gpt-4o-mini-transcribe"

// OpenAIClient recognizes speech through the OpenAI transcription API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates the OpenAI engine. baseURL overrides the public
// endpoint for proxies and tests; empty means api.openai.com.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAITranscriptionURL
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

type openAIResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (c *OpenAIClient) Recognize(ctx context.Context, req Request) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	model := req.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	writer.WriteField("model", model)
	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("temperature", "0")
	if req.Language != "" && req.Language != "auto" {
		writer.WriteField("language", req.Language)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("OpenAI API", resp.StatusCode, body)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	segments := make([]transcript.Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{Start: seg.Start, End: seg.End, Text: text})
	}

	// Newer transcribe models return plain text without segment timings.
	// Spread the sentences evenly across the slice so merging still works.
	if len(segments) == 0 && strings.TrimSpace(parsed.Text) != "" {
		duration := parsed.Duration
		if duration <= 0 {
			duration = req.Duration
		}
		segments = sentenceSegments(parsed.Text, duration)
	}

	return &Result{
		Segments: segments,
		Language: parsed.Language,
		Text:     strings.TrimSpace(parsed.Text),
	}, nil
}
