package asr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scribeflow/backend/internal/export"
	"github.com/scribeflow/backend/internal/transcript"
)

// WhisperCppClient recognizes speech through a whisper.cpp HTTP server
// (whisper-server) running next to the backend.
type WhisperCppClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewWhisperCppClient creates a client for the whisper.cpp server.
func NewWhisperCppClient(baseURL string) *WhisperCppClient {
	return &WhisperCppClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute, // long slices on CPU can take a while
		},
	}
}

func (c *WhisperCppClient) Name() string {
	return "whisper.cpp"
}

// Recognize sends the slice to whisper-server and parses the cue timings
// out of its WebVTT response.
func (c *WhisperCppClient) Recognize(ctx context.Context, req Request) (*Result, error) {
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

	writer.WriteField("response_format", "vtt")
	writer.WriteField("temperature", "0.0")
	if req.Language != "" && req.Language != "auto" {
		writer.WriteField("language", req.Language)
	}
	writer.Close()

	url := c.baseURL + "/inference"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

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
		return nil, statusError("whisper server", resp.StatusCode, body)
	}

	var segments []transcript.Segment
	var texts []string
	for _, cue := range export.ParseCues(string(body)) {
		text := strings.TrimSpace(cue.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{Start: cue.Start, End: cue.End, Text: text})
		texts = append(texts, text)
	}

	return &Result{
		Segments: segments,
		Language: req.Language,
		Text:     strings.Join(texts, " "),
	}, nil
}
