package download

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/scribeflow/backend/internal/job"
)

// Service adapts the downloader to the job queue.
type Service struct {
	downloader *Downloader
	queue      *job.Queue
	mediaPath  string
}

func NewService(downloader *Downloader, queue *job.Queue, mediaPath string) *Service {
	return &Service{
		downloader: downloader,
		queue:      queue,
		mediaPath:  mediaPath,
	}
}

// HandleJob downloads the job's URL into the media directory. When the
// request asked for it, a transcription job for the fresh file is queued.
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.DownloadParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}
	if params.URL == "" {
		return fmt.Errorf("download job has no url")
	}

	log.Printf("[download] starting: %s", params.URL)
	updateProgress(0.1)

	res, err := s.downloader.Download(ctx, params.URL)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	relPath, err := filepath.Rel(s.mediaPath, res.FilePath)
	if err != nil || filepath.IsAbs(relPath) {
		relPath = filepath.Base(res.FilePath)
	}

	resultJSON, _ := json.Marshal(job.DownloadResult{
		FilePath: relPath,
		Title:    res.Title,
	})
	j.Result = resultJSON
	log.Printf("[download] complete: %s (%s)", relPath, res.Title)

	if params.Transcribe {
		follow, err := s.queue.Enqueue(job.TypeTranscribe, relPath, map[string]interface{}{})
		if err != nil {
			return fmt.Errorf("queue transcription for %s: %w", relPath, err)
		}
		log.Printf("[download] queued transcription %s for %s", follow.ID, relPath)
	}

	updateProgress(1.0)
	return nil
}
