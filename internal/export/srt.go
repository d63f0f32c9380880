package export

import (
	"fmt"
	"strings"

	"github.com/scribeflow/backend/internal/timecode"
	"github.com/scribeflow/backend/internal/transcript"
)

// SRT renders the transcript as SubRip text. Cues are numbered from 1 in
// emission order and separated by blank lines; a skipped empty segment
// consumes no number.
func SRT(t *transcript.Transcript) ([]byte, error) {
	var sb strings.Builder
	for _, cue := range cuesFrom(t) {
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", timecode.SRT(cue.Start), timecode.SRT(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String()), nil
}
