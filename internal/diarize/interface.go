package diarize

import (
	"context"

	"github.com/scribeflow/backend/internal/transcript"
)

// Diarizer separates a recording into per-speaker turns. device is a
// compute hint like "cuda" or "cpu"; engines that cannot honor it ignore
// it.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath, device string) ([]transcript.SpeakerTurn, error)
	Name() string
}
