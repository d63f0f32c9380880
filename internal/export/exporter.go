package export

import (
	"fmt"
	"sort"

	"github.com/scribeflow/backend/internal/transcript"
)

// RenderFunc renders a transcript into one output format.
type RenderFunc func(*transcript.Transcript) ([]byte, error)

var renderers = map[string]RenderFunc{
	"srt":  SRT,
	"vtt":  VTT,
	"docx": DOCX,
	"pdf":  PDF,
}

var mimeTypes = map[string]string{
	"srt":  "application/x-subrip",
	"vtt":  "text/vtt",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"pdf":  "application/pdf",
}

// Formats lists the supported export formats, sorted.
func Formats() []string {
	formats := make([]string, 0, len(renderers))
	for name := range renderers {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// Render produces the named format for the transcript. Speaker renaming is
// the caller's business; rendering sees whatever labels the transcript
// carries.
func Render(format string, t *transcript.Transcript) ([]byte, error) {
	render, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	return render(t)
}

// FileName returns the download filename for a format.
func FileName(format string) string {
	return "transcript." + format
}

// MIMEType returns the content type served for a format, or
// application/octet-stream for formats it does not know.
func MIMEType(format string) string {
	if mt, ok := mimeTypes[format]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Bundle holds the results of rendering every format at once. A format that
// failed appears in Errors instead of Files; one bad renderer never blocks
// the others.
type Bundle struct {
	Files  map[string][]byte
	Errors map[string]error
}

// All renders the transcript in every supported format.
func All(t *transcript.Transcript) Bundle {
	bundle := Bundle{
		Files:  make(map[string][]byte),
		Errors: make(map[string]error),
	}
	for _, format := range Formats() {
		data, err := Render(format, t)
		if err != nil {
			bundle.Errors[format] = err
			continue
		}
		bundle.Files[format] = data
	}
	return bundle
}
