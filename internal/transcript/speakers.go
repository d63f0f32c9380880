package transcript

import (
	"sort"
	"strings"
)

// Rename substitutes raw speaker labels with display names wherever the map
// has an entry. Labels absent from the map pass through unchanged. The input
// is not modified; renaming happens on a copy at render time so the stored
// raw labels survive repeated renames.
func Rename(t *Transcript, names map[string]string) *Transcript {
	out := t.Clone()
	if len(names) == 0 {
		return out
	}
	for i := range out.Segments {
		if display, ok := names[out.Segments[i].Speaker]; ok && out.Segments[i].Speaker != "" {
			out.Segments[i].Speaker = display
		}
	}
	return out
}

// Speakers returns the distinct raw speaker labels in the transcript, sorted.
func Speakers(t *Transcript) []string {
	seen := make(map[string]bool)
	for _, s := range t.Segments {
		if s.Speaker != "" {
			seen[s.Speaker] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// SpeakerCount returns the number of distinct labeled speakers. A transcript
// is treated as multi-speaker by the UI when this is at least 2.
func SpeakerCount(t *Transcript) int {
	return len(Speakers(t))
}

// PlainText renders the transcript as readable text, one line per segment
// with the speaker label prefixed when present, blank lines between entries.
// Segments with no text are skipped.
func PlainText(t *Transcript) string {
	var b strings.Builder
	for _, s := range t.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if s.Speaker != "" {
			b.WriteString(s.Speaker)
			b.WriteString(": ")
		}
		b.WriteString(text)
	}
	return b.String()
}
