package export

import (
	"fmt"
	"strings"

	"github.com/scribeflow/backend/internal/timecode"
	"github.com/scribeflow/backend/internal/transcript"
)

// VTT renders the transcript as WebVTT: the header line, a blank line, then
// unnumbered cues with dot millisecond separators.
func VTT(t *transcript.Transcript) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, cue := range cuesFrom(t) {
		sb.WriteString(fmt.Sprintf("%s --> %s\n", timecode.VTT(cue.Start), timecode.VTT(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String()), nil
}
