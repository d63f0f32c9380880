package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultChatURL = "https://api.openai.com/v1/chat/completions"

// DefaultModel is a cheap chat model, plenty for note generation.
const DefaultModel = "gpt-3.5-turbo"

// Client calls the OpenAI chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a note generator. baseURL and model fall back to the
// OpenAI platform and DefaultModel when empty.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultChatURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Options selects what kind of notes to generate.
type Options struct {
	Kind       string `json:"kind"`
	EmailStyle string `json:"email_style,omitempty"`
}

// Generate produces notes of the requested kind from transcript text.
func (c *Client) Generate(ctx context.Context, opts Options, text string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}
	p, ok := presets[opts.Kind]
	if !ok {
		return "", fmt.Errorf("unknown note kind %q, supported: %v", opts.Kind, Kinds())
	}

	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": p.system},
			{"role": "user", "content": userPrompt(opts.Kind, opts.EmailStyle, text)},
		},
		"max_tokens": p.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty OpenAI response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
