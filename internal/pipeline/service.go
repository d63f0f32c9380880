package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/scribeflow/backend/internal/job"
	"github.com/scribeflow/backend/internal/transcript"
)

// Service adapts the pipeline to the job queue and keeps finished
// transcripts in the store for the HTTP API.
type Service struct {
	pipe      *Pipeline
	store     *transcript.Store
	mediaPath string
	defaults  Options
}

func NewService(pipe *Pipeline, store *transcript.Store, mediaPath string, defaults Options) *Service {
	return &Service{
		pipe:      pipe,
		store:     store,
		mediaPath: mediaPath,
		defaults:  defaults,
	}
}

// Defaults returns the configured base options. The API lets request
// bodies overlay them.
func (s *Service) Defaults() Options {
	return s.defaults
}

// HandleJob processes a transcription job.
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	opts := s.defaults
	if len(j.Params) > 0 {
		if err := json.Unmarshal(j.Params, &opts); err != nil {
			return fmt.Errorf("unmarshal params: %w", err)
		}
	}

	fullPath := j.FilePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(s.mediaPath, j.FilePath)
	}
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", j.FilePath)
	}

	log.Printf("[pipeline] starting transcription: engine=%s file=%s language=%s diarize=%v",
		opts.Engine, j.FilePath, opts.Language, opts.Diarize)

	started := time.Now()
	result, err := s.pipe.Run(ctx, fullPath, opts, updateProgress)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	id := uuid.New().String()
	s.store.Put(id, &transcript.Entry{
		Transcript: result.Transcript,
		Warnings:   result.Warnings,
		MediaPath:  j.FilePath,
	})

	resultJSON, _ := json.Marshal(job.TranscribeResult{
		TranscriptID: id,
		Language:     result.Language,
		Segments:     len(result.Transcript.Segments),
		Speakers:     result.Speakers,
		Warnings:     result.Warnings,
		Elapsed:      time.Since(started).Seconds(),
	})
	j.Result = resultJSON

	log.Printf("[pipeline] transcription complete: transcript=%s segments=%d", id, len(result.Transcript.Segments))
	return nil
}
