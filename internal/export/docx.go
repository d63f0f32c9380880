package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/scribeflow/backend/internal/timecode"
	"github.com/scribeflow/backend/internal/transcript"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

// DOCX renders the transcript as a Word document: a bytes-level OOXML
// package with a title paragraph followed by one paragraph per segment,
// speaker label in bold, then a [MM:SS - MM:SS] range and the text.
func DOCX(t *transcript.Transcript) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name, content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", docxDocument(t)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("%w: docx part %s: %v", transcript.ErrExportEncoding, part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("%w: docx part %s: %v", transcript.ErrExportEncoding, part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: docx package: %v", transcript.ErrExportEncoding, err)
	}
	return buf.Bytes(), nil
}

// docxDocument builds word/document.xml. Run properties are set inline so
// the document needs no styles part to render.
func docxDocument(t *transcript.Transcript) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	sb.WriteString(`<w:p><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t>Transcription</w:t></w:r></w:p>`)

	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		sb.WriteString(`<w:p>`)
		if seg.Speaker != "" {
			sb.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">`)
			sb.WriteString(escapeXML(seg.Speaker + ": "))
			sb.WriteString(`</w:t></w:r>`)
		}
		sb.WriteString(`<w:r><w:t xml:space="preserve">`)
		sb.WriteString(escapeXML(fmt.Sprintf("[%s - %s] %s", timecode.Clock(seg.Start), timecode.Clock(seg.End), text)))
		sb.WriteString(`</w:t></w:r>`)
		sb.WriteString(`</w:p>`)
	}

	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func escapeXML(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
