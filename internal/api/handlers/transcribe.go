package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/scribeflow/backend/internal/asr"
	"github.com/scribeflow/backend/internal/db"
	"github.com/scribeflow/backend/internal/download"
	"github.com/scribeflow/backend/internal/job"
	"github.com/scribeflow/backend/internal/pipeline"
	"github.com/scribeflow/backend/internal/storage"
)

type TranscribeHandler struct {
	queue     *job.Queue
	asr       *asr.Service
	pipeline  *pipeline.Service
	database  *db.Database
	mediaPath string
}

func NewTranscribeHandler(queue *job.Queue, asrSvc *asr.Service, pipeSvc *pipeline.Service, database *db.Database, mediaPath string) *TranscribeHandler {
	return &TranscribeHandler{
		queue:     queue,
		asr:       asrSvc,
		pipeline:  pipeSvc,
		database:  database,
		mediaPath: mediaPath,
	}
}

// Start queues a transcription for a media file. The request body may
// override any pipeline option; omitted fields come from the saved
// settings and the configured defaults.
func (h *TranscribeHandler) Start(w http.ResponseWriter, r *http.Request) {
	relPath := extractPath(r)
	if relPath == "" {
		jsonError(w, "missing media path", http.StatusBadRequest)
		return
	}

	full, err := storage.SafeJoin(h.mediaPath, relPath)
	if err != nil {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		jsonError(w, "file not found: "+relPath, http.StatusNotFound)
		return
	}
	if !storage.IsMediaFile(full) {
		jsonError(w, "not a media file: "+relPath, http.StatusBadRequest)
		return
	}

	opts := h.effectiveOptions()
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.asr.Has(opts.Engine) {
		jsonError(w, "unknown engine "+opts.Engine+", available: "+strings.Join(h.asr.Engines(), ", "), http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.TypeTranscribe, relPath, opts)
	if err != nil {
		jsonError(w, "failed to queue job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusAccepted)
}

// Download queues a URL fetch, optionally followed by transcription.
func (h *TranscribeHandler) Download(w http.ResponseWriter, r *http.Request) {
	var params job.DownloadParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(params.URL, "http://") && !strings.HasPrefix(params.URL, "https://") {
		jsonError(w, "url must be http(s)", http.StatusBadRequest)
		return
	}
	if !download.Available() {
		jsonError(w, "yt-dlp is not installed on this server", http.StatusServiceUnavailable)
		return
	}

	j, err := h.queue.Enqueue(job.TypeDownload, "", params)
	if err != nil {
		jsonError(w, "failed to queue job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusAccepted)
}

// effectiveOptions merges the saved settings over the configured defaults.
func (h *TranscribeHandler) effectiveOptions() pipeline.Options {
	opts := h.pipeline.Defaults()
	opts.Engine = h.database.GetSetting("default_engine", opts.Engine)
	opts.Language = h.database.GetSetting("default_language", opts.Language)
	if v := h.database.GetSetting("diarize", ""); v != "" {
		opts.Diarize = v == "true"
	}
	return opts
}
