package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scribeflow/backend/internal/db"
	"github.com/scribeflow/backend/internal/job"
)

func newWatchQueue(t *testing.T) *job.Queue {
	t.Helper()
	d, err := db.NewSQLite(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// The queue is never started, jobs stay pending for inspection.
	q := job.NewQueue(d.DB())
	t.Cleanup(func() {
		q.Stop()
		d.Close()
	})
	return q
}

func waitForJobs(t *testing.T, q *job.Queue, want int) []*job.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		jobs, err := q.List()
		if err == nil && len(jobs) >= want {
			return jobs
		}
		time.Sleep(20 * time.Millisecond)
	}
	jobs, _ := q.List()
	t.Fatalf("wanted %d jobs, have %d", want, len(jobs))
	return nil
}

func TestWatcherQueuesNewMedia(t *testing.T) {
	dir := t.TempDir()
	q := newWatchQueue(t)

	w, err := New(dir, dir, q)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	if err := os.WriteFile(filepath.Join(dir, "standup.mp3"), []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	jobs := waitForJobs(t, q, 1)
	if jobs[0].Type != job.TypeTranscribe {
		t.Errorf("Type = %s", jobs[0].Type)
	}
	if jobs[0].FilePath != "standup.mp3" {
		t.Errorf("FilePath = %q, want relative path", jobs[0].FilePath)
	}
}

func TestWatcherIgnoresNonMedia(t *testing.T) {
	dir := t.TempDir()
	q := newWatchQueue(t)

	w, err := New(dir, dir, q)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "video.mp4.part"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, ".hidden.mp3"), []byte("x"), 0o644)

	time.Sleep(300 * time.Millisecond)
	jobs, err := q.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("queued %d jobs for ignorable files: %+v", len(jobs), jobs)
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	q := newWatchQueue(t)

	w, err := New(dir, dir, q)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.settle = 150 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Simulate a slow copy: several writes inside the settle window.
	path := filepath.Join(dir, "long-recording.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 5; i++ {
		f.Write([]byte("chunk"))
		f.Sync()
		time.Sleep(30 * time.Millisecond)
	}
	f.Close()

	waitForJobs(t, q, 1)
	// One settled file means one job, not one per write event.
	time.Sleep(300 * time.Millisecond)
	jobs, err := q.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("queued %d jobs for one file", len(jobs))
	}
}
