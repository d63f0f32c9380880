package transcript

import "errors"

// Sentinel errors for the pipeline. Callers match with errors.Is; layers add
// context with fmt.Errorf("...: %w", err).
var (
	ErrInvalidDuration        = errors.New("invalid media duration")
	ErrRecognitionUnavailable = errors.New("recognition engine unavailable")
	ErrRecognitionTimeout     = errors.New("recognition request timed out")
	ErrEmptyRecognition       = errors.New("recognition produced no segments")
	ErrDiarizationUnavailable = errors.New("diarization engine unavailable")
	ErrExportEncoding         = errors.New("export encoding failed")
)
