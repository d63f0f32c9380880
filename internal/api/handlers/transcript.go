package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scribeflow/backend/internal/export"
	"github.com/scribeflow/backend/internal/summarize"
	"github.com/scribeflow/backend/internal/transcript"
)

type TranscriptHandler struct {
	store *transcript.Store
	notes *summarize.Client // nil when no OpenAI key is configured
}

func NewTranscriptHandler(store *transcript.Store, notes *summarize.Client) *TranscriptHandler {
	return &TranscriptHandler{store: store, notes: notes}
}

func (h *TranscriptHandler) entry(w http.ResponseWriter, r *http.Request) *transcript.Entry {
	id := chi.URLParam(r, "id")
	e := h.store.Get(id)
	if e == nil {
		jsonError(w, "transcript not found", http.StatusNotFound)
		return nil
	}
	return e
}

// display returns the transcript with the saved speaker names applied.
func display(e *transcript.Entry) *transcript.Transcript {
	return transcript.Rename(e.Transcript, e.SpeakerMap)
}

// Get returns a stored transcript with its speaker metadata.
func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}
	jsonResponse(w, map[string]interface{}{
		"transcript":  e.Transcript,
		"speaker_map": e.SpeakerMap,
		"speakers":    transcript.Speakers(e.Transcript),
		"warnings":    e.Warnings,
		"media_path":  e.MediaPath,
		"created_at":  e.CreatedAt,
	}, http.StatusOK)
}

// Text returns the transcript as plain text, speaker names applied.
func (h *TranscriptHandler) Text(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(transcript.PlainText(display(e))))
}

// UpdateSpeakers saves a label-to-name map for a transcript. The raw
// diarization labels stay on the stored transcript; renames apply at
// render time.
func (h *TranscriptHandler) UpdateSpeakers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var names map[string]string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.store.SetSpeakerMap(id, names) {
		jsonError(w, "transcript not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export renders the transcript in one format and sends it as a download.
func (h *TranscriptHandler) Export(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}
	format := chi.URLParam(r, "format")

	data, err := export.Render(format, display(e))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", export.MIMEType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format)))
	w.Write(data)
}

// ExportAll renders every format in one shot. Formats that fail are
// reported alongside the ones that worked.
func (h *TranscriptHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}

	bundle := export.All(display(e))
	files := make(map[string][]byte, len(bundle.Files))
	for format, data := range bundle.Files {
		files[export.FileName(format)] = data
	}
	errs := make(map[string]string, len(bundle.Errors))
	for format, err := range bundle.Errors {
		errs[format] = err.Error()
	}

	jsonResponse(w, map[string]interface{}{
		"files":  files, // values are base64 in the JSON encoding
		"errors": errs,
	}, http.StatusOK)
}

// Notes generates summary-style notes from the transcript text.
func (h *TranscriptHandler) Notes(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	if e == nil {
		return
	}
	if h.notes == nil {
		jsonError(w, "note generation needs an OpenAI API key", http.StatusServiceUnavailable)
		return
	}

	var opts summarize.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.notes.Generate(r.Context(), opts, transcript.PlainText(display(e)))
	if err != nil {
		jsonError(w, "note generation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	jsonResponse(w, map[string]string{
		"kind":    opts.Kind,
		"content": content,
	}, http.StatusOK)
}
