package diarize

import (
	"sort"

	"github.com/scribeflow/backend/internal/transcript"
)

const (
	// DefaultMinTurn is the shortest turn kept after compaction, seconds.
	DefaultMinTurn = 0.6
	// DefaultTurnGap is the widest silence bridged between consecutive
	// turns of one speaker, seconds.
	DefaultTurnGap = 0.4
)

// Compact cleans raw diarization output. Consecutive turns of the same
// speaker separated by at most maxGap seconds collapse into one turn; turns
// still shorter than minDuration afterwards are dropped as blips. The input
// is not modified.
func Compact(turns []transcript.SpeakerTurn, minDuration, maxGap float64) []transcript.SpeakerTurn {
	if len(turns) == 0 {
		return nil
	}

	sorted := make([]transcript.SpeakerTurn, len(turns))
	copy(sorted, turns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := sorted[:1]
	for _, turn := range sorted[1:] {
		last := &merged[len(merged)-1]
		if turn.Speaker == last.Speaker && turn.Start-last.End <= maxGap {
			if turn.End > last.End {
				last.End = turn.End
			}
			continue
		}
		merged = append(merged, turn)
	}

	out := make([]transcript.SpeakerTurn, 0, len(merged))
	for _, turn := range merged {
		if turn.End-turn.Start >= minDuration {
			out = append(out, turn)
		}
	}
	return out
}
