package job

import (
	"context"
	"encoding/json"
	"time"
)

// Type is the kind of work a job carries.
type Type string

const (
	TypeTranscribe Type = "transcribe"
	TypeDownload   Type = "download"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job is one queued task. Params and Result stay raw here; the handler
// packages own their shapes.
type Job struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Status      Status          `json:"status"`
	FilePath    string          `json:"file_path"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// DownloadParams are the parameters of a URL download job.
type DownloadParams struct {
	URL        string `json:"url"`
	Transcribe bool   `json:"transcribe,omitempty"` // queue a transcription when the download lands
}

// TranscribeResult is the output of a finished transcription job.
type TranscribeResult struct {
	TranscriptID string   `json:"transcript_id"`
	Language     string   `json:"language"`
	Segments     int      `json:"segments"`
	Speakers     int      `json:"speakers"`
	Warnings     []string `json:"warnings,omitempty"`
	Elapsed      float64  `json:"elapsed"` // processing time in seconds
}

// DownloadResult is the output of a finished download job.
type DownloadResult struct {
	FilePath string `json:"file_path"` // relative to the media root
	Title    string `json:"title,omitempty"`
}

// Handler processes one job. Implementations live in the pipeline and
// download packages.
type Handler func(ctx context.Context, job *Job, updateProgress func(float64)) error

// Event is the queue state change pushed to websocket watchers.
type Event struct {
	JobID    string  `json:"job_id"`
	Type     Type    `json:"type"`
	Status   Status  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}
