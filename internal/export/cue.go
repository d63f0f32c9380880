// Package export renders transcripts into the downloadable document formats.
package export

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scribeflow/backend/internal/timecode"
	"github.com/scribeflow/backend/internal/transcript"
)

// Cue is one subtitle entry ready for rendering.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

var timestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[.,]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[.,]\d{3})`)

// cuesFrom flattens a transcript into cues. Segments with no text are
// dropped, so the emitted indices stay consecutive from 1. The speaker
// label, when present, becomes a "Name: " prefix on the cue text.
func cuesFrom(t *transcript.Transcript) []Cue {
	cues := make([]Cue, 0, len(t.Segments))
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Speaker != "" {
			text = seg.Speaker + ": " + text
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	return cues
}

// ParseCues reads SRT or WebVTT content back into cues. Cue numbers and the
// WEBVTT header are skipped; both timestamp separators are accepted.
func ParseCues(content string) []Cue {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var cues []Cue
	var current *Cue

	flush := func() {
		if current != nil && current.Text != "" {
			cues = append(cues, *current)
		}
		current = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "WEBVTT" || line == "" {
			flush()
			continue
		}

		if matches := timestampRe.FindStringSubmatch(line); len(matches) == 3 {
			flush()
			start, _ := timecode.Parse(matches[1])
			end, _ := timecode.Parse(matches[2])
			current = &Cue{Index: len(cues) + 1, Start: start, End: end}
			continue
		}

		// Cue numbers are bare digits on their own line before a timestamp.
		if _, err := strconv.Atoi(line); err == nil && current == nil {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}
	flush()

	return cues
}
