package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/scribeflow/backend/internal/timecode"
	"github.com/scribeflow/backend/internal/transcript"
)

// PDF renders the transcript as an A4 portrait document, one flowed line
// per segment with the speaker label in bold. Text passes through the
// cp1252 translator, so characters outside that page degrade to their
// closest substitute rather than failing the export.
func PDF(t *transcript.Transcript) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Transcription"))
	pdf.Ln(14)

	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Speaker != "" {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Write(6, tr(seg.Speaker+": "))
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.Write(6, tr(fmt.Sprintf("[%s - %s] %s", timecode.Clock(seg.Start), timecode.Clock(seg.End), text)))
		pdf.Ln(9)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", transcript.ErrExportEncoding, err)
	}
	return buf.Bytes(), nil
}
