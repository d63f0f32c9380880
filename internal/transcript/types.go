package transcript

// Segment is a single recognized span of speech. Times are seconds relative
// to the chunk before merging, and global media seconds after.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"` // raw diarization label, "" when unassigned
}

// Chunk is a bounded time window of the source media submitted as one
// recognition request. Adjacent chunks overlap by the configured guard
// interval so words are not cut at the boundary.
type Chunk struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SpeakerTurn is one diarization interval: a span attributed to one speaker.
// Turns for the same speaker may be non-contiguous.
type SpeakerTurn struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Transcript is the merged, time-ordered sequence of segments for the whole
// media file.
type Transcript struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// Clone returns a deep copy. Alignment and renaming return copies so a stored
// transcript is never mutated after the pipeline finishes.
func (t *Transcript) Clone() *Transcript {
	out := &Transcript{
		Segments: make([]Segment, len(t.Segments)),
		Language: t.Language,
	}
	copy(out.Segments, t.Segments)
	return out
}

// Text returns the full transcript text with segments joined by spaces.
func (t *Transcript) Text() string {
	total := 0
	for _, s := range t.Segments {
		total += len(s.Text) + 1
	}
	buf := make([]byte, 0, total)
	for _, s := range t.Segments {
		if s.Text == "" {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
