package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scribeflow/backend/internal/transcript"
)

// Client talks to the pyannote diarization sidecar over HTTP. Every failure
// wraps the diarization sentinel, so the pipeline can drop speaker labels
// and keep going instead of failing the whole job.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a sidecar client. token is the Hugging Face access
// token the sidecar needs for gated pyannote models; empty is allowed when
// the sidecar has its own.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Minute,
		},
	}
}

func (c *Client) Name() string {
	return "pyannote"
}

type diarizeResponse struct {
	Segments []struct {
		Speaker string  `json:"speaker"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
	} `json:"segments"`
}

// Diarize uploads the recording and returns its speaker turns sorted by
// start time.
func (c *Client) Diarize(ctx context.Context, audioPath, device string) ([]transcript.SpeakerTurn, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open audio: %v", transcript.ErrDiarizationUnavailable, err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}
	if device != "" {
		writer.WriteField("device", device)
	}
	writer.Close()

	url := c.baseURL + "/diarize"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Printf("[diarize] sending request to %s (audio: %s, device: %s)", url, audioPath, device)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", transcript.ErrDiarizationUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", transcript.ErrDiarizationUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: diarization server error (status %d): %s",
			transcript.ErrDiarizationUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed diarizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", transcript.ErrDiarizationUnavailable, err)
	}

	turns := make([]transcript.SpeakerTurn, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		turns = append(turns, transcript.SpeakerTurn{
			Speaker: seg.Speaker,
			Start:   seg.Start,
			End:     seg.End,
		})
	}
	sort.Slice(turns, func(i, j int) bool { return turns[i].Start < turns[j].Start })

	return turns, nil
}
