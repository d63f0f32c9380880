package asr

import (
	"context"

	"github.com/scribeflow/backend/internal/transcript"
)

// Request is the input for recognizing one slice of audio.
type Request struct {
	AudioPath string  // absolute path to a 16kHz mono WAV slice
	Language  string  // "auto" or an ISO 639-1 code like "en", "ko"
	Model     string  // engine-specific model name, empty for the default
	Duration  float64 // seconds of audio in the slice
}

// Result is the recognized content of one slice. Segment times are relative
// to the start of the slice the engine saw, not the whole recording.
type Result struct {
	Segments []transcript.Segment
	Language string
	Text     string
}

// Recognizer is the common interface for all speech-to-text engines.
type Recognizer interface {
	// Recognize converts one audio slice to timed segments.
	Recognize(ctx context.Context, req Request) (*Result, error)
	// Name returns the engine name used in job parameters.
	Name() string
}
