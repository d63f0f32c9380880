package pipeline

import (
	"fmt"

	"github.com/scribeflow/backend/internal/diarize"
	"github.com/scribeflow/backend/internal/transcript"
)

// Chunk failure policies.
const (
	// FailureDegrade drops a failed chunk with a warning and keeps going.
	FailureDegrade = "degrade"
	// FailureAbort fails the whole job on the first chunk error.
	FailureAbort = "fail"
)

// DefaultConcurrency bounds how many chunks are recognized at once.
const DefaultConcurrency = 3

// Options controls one transcription run. Zero values mean defaults.
type Options struct {
	Engine         string  `json:"engine"`
	Model          string  `json:"model,omitempty"`
	Language       string  `json:"language,omitempty"`
	ChunkLength    float64 `json:"chunk_length,omitempty"`
	Overlap        float64 `json:"overlap,omitempty"`
	MergeEpsilon   float64 `json:"merge_epsilon,omitempty"`
	Concurrency    int     `json:"concurrency,omitempty"`
	Diarize        bool    `json:"diarize,omitempty"`
	MinTurn        float64 `json:"min_turn,omitempty"`
	TurnGap        float64 `json:"turn_gap,omitempty"`
	OnChunkFailure string  `json:"on_chunk_failure,omitempty"`
}

// withDefaults fills unset fields and rejects values no run can use.
func (o Options) withDefaults() (Options, error) {
	if o.Engine == "" {
		o.Engine = "openai"
	}
	if o.Language == "" {
		o.Language = "auto"
	}
	if o.ChunkLength <= 0 {
		o.ChunkLength = transcript.DefaultChunkLength
	}
	if o.Overlap <= 0 {
		o.Overlap = transcript.DefaultOverlap
	}
	if o.Overlap >= o.ChunkLength {
		return o, fmt.Errorf("overlap %.3fs must be shorter than chunk length %.3fs", o.Overlap, o.ChunkLength)
	}
	if o.MergeEpsilon <= 0 {
		o.MergeEpsilon = transcript.DefaultMergeEpsilon
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MinTurn <= 0 {
		o.MinTurn = diarize.DefaultMinTurn
	}
	if o.TurnGap <= 0 {
		o.TurnGap = diarize.DefaultTurnGap
	}
	switch o.OnChunkFailure {
	case "":
		o.OnChunkFailure = FailureDegrade
	case FailureDegrade, FailureAbort:
	default:
		return o, fmt.Errorf("unknown chunk failure policy %q", o.OnChunkFailure)
	}
	return o, nil
}
