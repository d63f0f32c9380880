package asr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/scribeflow/backend/internal/transcript"
)

// Config selects which engines the service registers.
type Config struct {
	OpenAIKey     string
	OpenAIBaseURL string
	WhisperURL    string
	Retries       int
}

// Service routes recognition requests to the configured engines and retries
// transient failures with exponential backoff.
type Service struct {
	engines map[string]Recognizer
	retries int
}

// NewService creates a recognition service with every engine the config
// enables.
func NewService(cfg Config) *Service {
	s := &Service{
		engines: make(map[string]Recognizer),
		retries: cfg.Retries,
	}
	if s.retries < 0 {
		s.retries = 0
	}

	if cfg.OpenAIKey != "" {
		s.Register(NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL))
		log.Printf("[asr] registered OpenAI engine")
	}
	if cfg.WhisperURL != "" {
		s.Register(NewWhisperCppClient(cfg.WhisperURL))
		log.Printf("[asr] registered whisper.cpp engine at %s", cfg.WhisperURL)
	}

	return s
}

// Register adds an engine under its own name.
func (s *Service) Register(engine Recognizer) {
	s.engines[engine.Name()] = engine
}

// Engines lists the registered engine names, sorted.
func (s *Service) Engines() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether an engine is registered.
func (s *Service) Has(name string) bool {
	_, ok := s.engines[name]
	return ok
}

// Recognize runs one slice through the named engine. Unavailable-engine and
// timeout failures are retried with 1s, 2s, 4s... backoff; anything else
// fails immediately.
func (s *Service) Recognize(ctx context.Context, engine string, req Request) (*Result, error) {
	rec, ok := s.engines[engine]
	if !ok {
		return nil, fmt.Errorf("unknown recognition engine: %s (available: %v)", engine, s.Engines())
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Printf("[asr] %s retry %d/%d after %v", engine, attempt, s.retries, backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := rec.Recognize(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, transcript.ErrRecognitionUnavailable) && !errors.Is(err, transcript.ErrRecognitionTimeout) {
			return nil, err
		}
		log.Printf("[asr] %s transient error (attempt %d/%d): %v", engine, attempt+1, s.retries+1, err)
	}

	return nil, fmt.Errorf("%s failed after %d attempts: %w", engine, s.retries+1, lastErr)
}
