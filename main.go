package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scribeflow/backend/internal/api"
	"github.com/scribeflow/backend/internal/asr"
	"github.com/scribeflow/backend/internal/config"
	"github.com/scribeflow/backend/internal/db"
	"github.com/scribeflow/backend/internal/diarize"
	"github.com/scribeflow/backend/internal/download"
	"github.com/scribeflow/backend/internal/job"
	"github.com/scribeflow/backend/internal/pipeline"
	"github.com/scribeflow/backend/internal/summarize"
	"github.com/scribeflow/backend/internal/transcript"
	"github.com/scribeflow/backend/internal/watch"
)

func main() {
	cfg := config.Load()

	// Ensure data directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.MediaPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Recognition engines
	asrService := asr.NewService(asr.Config{
		OpenAIKey:     cfg.OpenAIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		WhisperURL:    cfg.WhisperURL,
		Retries:       cfg.ASRRetries,
	})
	if len(asrService.Engines()) == 0 {
		log.Printf("No recognition engines configured, set OPENAI_API_KEY or WHISPER_URL")
	}

	var diarizer diarize.Diarizer
	if cfg.DiarizeURL != "" {
		diarizer = diarize.NewClient(cfg.DiarizeURL, cfg.HFToken)
		log.Printf("Diarization backend: %s", cfg.DiarizeURL)
	}

	defaults, err := config.PipelineDefaults(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load pipeline defaults: %v", err)
	}

	store := transcript.NewStore()
	pipe := pipeline.New(asrService, diarizer, nil)
	pipeService := pipeline.NewService(pipe, store, cfg.MediaPath, defaults)

	// Handlers must be registered before Start resumes leftover jobs.
	queue := job.NewQueue(database.DB())
	downloadService := download.NewService(download.NewDownloader(cfg.MediaPath), queue, cfg.MediaPath)
	queue.RegisterHandler(job.TypeTranscribe, pipeService.HandleJob)
	queue.RegisterHandler(job.TypeDownload, downloadService.HandleJob)
	queue.Start()

	var notes *summarize.Client
	if cfg.OpenAIKey != "" {
		notes = summarize.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.NotesModel)
	}

	// Watch folder
	if cfg.WatchPath != "" {
		os.MkdirAll(cfg.WatchPath, 0755)
		watcher, err := watch.New(cfg.WatchPath, cfg.MediaPath, queue)
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", cfg.WatchPath, err)
		}
		watcher.Start(context.Background())
	}

	// Create router
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       database,
		Queue:    queue,
		Store:    store,
		Pipeline: pipeService,
		ASR:      asrService,
		Notes:    notes,
		Diarizer: diarizer != nil,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Media path: %s", cfg.MediaPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		queue.Stop()
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
