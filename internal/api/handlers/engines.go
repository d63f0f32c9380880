package handlers

import (
	"net/http"

	"github.com/scribeflow/backend/internal/asr"
	"github.com/scribeflow/backend/internal/db"
	"github.com/scribeflow/backend/internal/download"
	"github.com/scribeflow/backend/internal/export"
	"github.com/scribeflow/backend/internal/ffmpeg"
	"github.com/scribeflow/backend/internal/gpu"
	"github.com/scribeflow/backend/internal/summarize"
)

type EnginesHandler struct {
	asr           *asr.Service
	database      *db.Database
	defaultEngine string
	diarization   bool
	notes         bool
}

func NewEnginesHandler(asrSvc *asr.Service, database *db.Database, defaultEngine string, diarization, notes bool) *EnginesHandler {
	return &EnginesHandler{
		asr:           asrSvc,
		database:      database,
		defaultEngine: defaultEngine,
		diarization:   diarization,
		notes:         notes,
	}
}

// Capabilities describes what this deployment can do, so the UI only
// offers switches that will work.
func (h *EnginesHandler) Capabilities(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"engines":        h.asr.Engines(),
		"default_engine": h.database.GetSetting("default_engine", h.defaultEngine),
		"diarization":    h.diarization,
		"notes":          h.notes,
		"note_kinds":     summarize.Kinds(),
		"export_formats": export.Formats(),
		"ffmpeg":         ffmpeg.Available(),
		"ytdlp":          download.Available(),
		"gpu":            gpu.Probe(),
	}, http.StatusOK)
}
