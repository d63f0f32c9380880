package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scribeflow/backend/internal/api/handlers"
	"github.com/scribeflow/backend/internal/api/middleware"
	"github.com/scribeflow/backend/internal/asr"
	"github.com/scribeflow/backend/internal/config"
	"github.com/scribeflow/backend/internal/db"
	"github.com/scribeflow/backend/internal/job"
	"github.com/scribeflow/backend/internal/pipeline"
	"github.com/scribeflow/backend/internal/summarize"
	"github.com/scribeflow/backend/internal/transcript"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	DB       *db.Database
	Queue    *job.Queue
	Store    *transcript.Store
	Pipeline *pipeline.Service
	ASR      *asr.Service
	Notes    *summarize.Client // nil disables note generation
	Diarizer bool              // a diarization backend is configured
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(d.Config.CORSOrigins)))

	// Handlers
	mediaHandler := handlers.NewMediaHandler(d.Config.MediaPath, d.Config.DataPath+"/thumbnails", d.Config.MaxUploadSize)
	transcribeHandler := handlers.NewTranscribeHandler(d.Queue, d.ASR, d.Pipeline, d.DB, d.Config.MediaPath)
	jobHandler := handlers.NewJobHandler(d.Queue, d.Store)
	eventsHandler := handlers.NewEventsHandler(d.Queue)
	transcriptHandler := handlers.NewTranscriptHandler(d.Store, d.Notes)
	enginesHandler := handlers.NewEnginesHandler(d.ASR, d.DB, d.Pipeline.Defaults().Engine, d.Diarizer, d.Notes != nil)
	settingsHandler := handlers.NewSettingsHandler(d.DB)

	// Note generation burns OpenAI tokens per call, keep it throttled.
	noteLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Get("/events", eventsHandler.Stream)

		// Media library. Uploads size-limit themselves.
		r.Route("/media", func(r chi.Router) {
			r.Get("/", mediaHandler.List)
			r.Post("/", mediaHandler.Upload)
			r.Get("/info/*", mediaHandler.Info)
			r.Get("/thumbnail/*", mediaHandler.Thumbnail)
			r.Get("/*", mediaHandler.Serve)
			r.Delete("/*", mediaHandler.Delete)
		})

		// JSON routes get a small body cap.
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(1 << 20))

			r.Post("/transcribe/*", transcribeHandler.Start)
			r.Post("/download", transcribeHandler.Download)

			r.Get("/jobs", jobHandler.List)
			r.Get("/jobs/{id}", jobHandler.Get)
			r.Post("/jobs/{id}/cancel", jobHandler.Cancel)
			r.Post("/jobs/{id}/retry", jobHandler.Retry)
			r.Delete("/jobs/{id}", jobHandler.Delete)

			r.Route("/transcripts/{id}", func(r chi.Router) {
				r.Get("/", transcriptHandler.Get)
				r.Get("/text", transcriptHandler.Text)
				r.Put("/speakers", transcriptHandler.UpdateSpeakers)
				r.Get("/export/{format}", transcriptHandler.Export)
				r.Get("/exports", transcriptHandler.ExportAll)
				r.With(noteLimiter.Handler).Post("/notes", transcriptHandler.Notes)
			})

			r.Get("/engines", enginesHandler.Capabilities)
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
		})
	})

	return r
}
