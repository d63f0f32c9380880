package transcript

import (
	"fmt"
	"math"
	"sort"
)

// DefaultMergeEpsilon is the start-time tolerance for treating two segments
// in an overlap region as the same utterance.
const DefaultMergeEpsilon = 0.5

// Merge rebases each chunk's local segment times to global media time and
// concatenates the chunks into one ordered transcript.
//
// Segments that fall entirely inside the previous chunk's overlap tail and
// repeat a segment already kept (same text, start difference under epsilon)
// are dropped; the earlier chunk's copy wins since it carries more leading
// context. Output is sorted by start time, ties broken by chunk index.
//
// Returns ErrEmptyRecognition only when every chunk produced zero segments;
// pass epsilon <= 0 to use DefaultMergeEpsilon.
func Merge(chunks []Chunk, results [][]Segment, epsilon float64) (*Transcript, error) {
	if len(results) != len(chunks) {
		return nil, fmt.Errorf("got %d chunk results for %d chunks", len(results), len(chunks))
	}
	if epsilon <= 0 {
		epsilon = DefaultMergeEpsilon
	}

	empty := true
	for _, segs := range results {
		if len(segs) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return nil, ErrEmptyRecognition
	}

	type placed struct {
		seg   Segment
		chunk int
	}
	var kept []placed

	duplicate := func(s Segment) bool {
		for j := len(kept) - 1; j >= 0; j-- {
			k := kept[j].seg
			if k.Text == s.Text && math.Abs(k.Start-s.Start) < epsilon {
				return true
			}
		}
		return false
	}

	for i, c := range chunks {
		// End of the previous chunk's window; rebased segments ending at or
		// before this point lie entirely inside the shared overlap region.
		prevEnd := -1.0
		if i > 0 {
			prevEnd = chunks[i-1].End
		}

		for _, s := range results[i] {
			seg := Segment{
				Start:   s.Start + c.Start,
				End:     s.End + c.Start,
				Text:    s.Text,
				Speaker: s.Speaker,
			}
			if i > 0 && seg.End <= prevEnd && duplicate(seg) {
				continue
			}
			kept = append(kept, placed{seg: seg, chunk: c.Index})
		}
	}

	sort.SliceStable(kept, func(a, b int) bool {
		if kept[a].seg.Start != kept[b].seg.Start {
			return kept[a].seg.Start < kept[b].seg.Start
		}
		return kept[a].chunk < kept[b].chunk
	})

	out := &Transcript{Segments: make([]Segment, 0, len(kept))}
	for _, p := range kept {
		n := len(out.Segments)
		if n > 0 && out.Segments[n-1] == p.seg {
			continue
		}
		out.Segments = append(out.Segments, p.seg)
	}
	return out, nil
}
