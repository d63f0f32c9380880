// Package watch turns a drop folder into a transcription intake: media
// files that land in it are queued automatically.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scribeflow/backend/internal/job"
	"github.com/scribeflow/backend/internal/storage"
)

// settleDelay is how long a file must stay quiet before it is queued.
// Copies into the folder emit a stream of write events until done.
const settleDelay = 2 * time.Second

type Watcher struct {
	dir       string
	mediaPath string
	queue     *job.Queue
	settle    time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	fsw *fsnotify.Watcher
}

// New sets up a watcher on dir. Files already in the folder are left
// alone, only new arrivals are queued.
func New(dir, mediaPath string, queue *job.Queue) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		dir:       dir,
		mediaPath: mediaPath,
		queue:     queue,
		settle:    settleDelay,
		timers:    make(map[string]*time.Timer),
		fsw:       fsw,
	}, nil
}

// Start processes events until the context ends.
func (w *Watcher) Start(ctx context.Context) {
	log.Printf("[watch] watching %s", w.dir)
	go func() {
		defer w.fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					w.fileChanged(event.Name)
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				log.Printf("[watch] error: %v", err)
			}
		}
	}()
}

// fileChanged debounces per file, so a file is only queued once it has
// stopped growing. Partial downloads (.part, .crdownload) never match
// the media extension check, queuing waits for the final rename.
func (w *Watcher) fileChanged(path string) {
	name := filepath.Base(path)
	if !storage.IsMediaFile(name) || strings.HasPrefix(name, ".") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.enqueue(path)
	})
}

func (w *Watcher) enqueue(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return
	}

	// Jobs carry paths relative to the media root when the drop folder
	// lives inside it, absolute paths otherwise.
	jobPath := path
	if rel, err := filepath.Rel(w.mediaPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		jobPath = rel
	}

	j, err := w.queue.Enqueue(job.TypeTranscribe, jobPath, map[string]interface{}{})
	if err != nil {
		log.Printf("[watch] failed to queue %s: %v", jobPath, err)
		return
	}
	log.Printf("[watch] queued transcription %s for %s", j.ID, jobPath)
}
