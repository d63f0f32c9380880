package export

import (
	"archive/zip"
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/scribeflow/backend/internal/transcript"
)

func sampleTranscript() *transcript.Transcript {
	return &transcript.Transcript{Segments: []transcript.Segment{
		{Start: 30, End: 31, Text: "Hello", Speaker: "Alice"},
		{Start: 31.5, End: 33.25, Text: "   "},
		{Start: 33.25, End: 35, Text: "General Kenobi."},
	}}
}

func TestSRT(t *testing.T) {
	got, err := SRT(sampleTranscript())
	if err != nil {
		t.Fatalf("SRT: %v", err)
	}
	want := "1\n" +
		"00:00:30,000 --> 00:00:31,000\n" +
		"Alice: Hello\n\n" +
		"2\n" +
		"00:00:33,250 --> 00:00:35,000\n" +
		"General Kenobi.\n\n"
	if string(got) != want {
		t.Errorf("SRT output:\n%q\nwant:\n%q", got, want)
	}
}

func TestVTT(t *testing.T) {
	got, err := VTT(sampleTranscript())
	if err != nil {
		t.Fatalf("VTT: %v", err)
	}
	want := "WEBVTT\n\n" +
		"00:00:30.000 --> 00:00:31.000\n" +
		"Alice: Hello\n\n" +
		"00:00:33.250 --> 00:00:35.000\n" +
		"General Kenobi.\n\n"
	if string(got) != want {
		t.Errorf("VTT output:\n%q\nwant:\n%q", got, want)
	}
}

func TestParseCuesRoundTrip(t *testing.T) {
	srtData, _ := SRT(sampleTranscript())
	vttData, _ := VTT(sampleTranscript())

	for name, content := range map[string]string{"srt": string(srtData), "vtt": string(vttData)} {
		cues := ParseCues(content)
		if len(cues) != 2 {
			t.Fatalf("%s: parsed %d cues, want 2", name, len(cues))
		}
		if cues[0].Text != "Alice: Hello" || cues[1].Text != "General Kenobi." {
			t.Errorf("%s: cue text %q / %q", name, cues[0].Text, cues[1].Text)
		}
		if math.Abs(cues[0].Start-30) > 0.001 || math.Abs(cues[1].End-35) > 0.001 {
			t.Errorf("%s: cue times %+v", name, cues)
		}
		if cues[0].Index != 1 || cues[1].Index != 2 {
			t.Errorf("%s: cue indices %d, %d", name, cues[0].Index, cues[1].Index)
		}
	}
}

func TestDOCX(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = append(tr.Segments, transcript.Segment{
		Start: 35, End: 36, Text: "a < b & c", Speaker: "Bob",
	})

	data, err := DOCX(tr)
	if err != nil {
		t.Fatalf("DOCX: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		rc.Close()
		parts[f.Name] = buf.String()
	}

	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing package part %s", name)
		}
	}

	doc := parts["word/document.xml"]
	for _, want := range []string{
		"Transcription",
		`<w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Alice: </w:t>`,
		"[00:30 - 00:31] Hello",
		"a &lt; b &amp; c",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
	if strings.Contains(doc, "[00:31 - 00:33]") {
		t.Error("blank segment should not be rendered")
	}
}

func TestPDF(t *testing.T) {
	data, err := PDF(sampleTranscript())
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(16, len(data))])
	}
	if len(data) < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", len(data))
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render("odt", sampleTranscript()); err == nil {
		t.Error("Render accepted an unknown format")
	}
}

func TestAll(t *testing.T) {
	bundle := All(sampleTranscript())
	for _, format := range Formats() {
		if len(bundle.Files[format]) == 0 {
			t.Errorf("bundle missing %s (error: %v)", format, bundle.Errors[format])
		}
	}
	if len(bundle.Errors) != 0 {
		t.Errorf("unexpected render errors: %v", bundle.Errors)
	}
}

func TestFileNameAndMIME(t *testing.T) {
	if got := FileName("srt"); got != "transcript.srt" {
		t.Errorf("FileName = %q", got)
	}
	if got := MIMEType("docx"); got != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Errorf("MIMEType(docx) = %q", got)
	}
	if got := MIMEType("weird"); got != "application/octet-stream" {
		t.Errorf("MIMEType fallback = %q", got)
	}
}
