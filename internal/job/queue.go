package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Queue persists jobs in sqlite, runs them one at a time, and publishes
// state changes to subscribers.
type Queue struct {
	db       *sql.DB
	mu       sync.RWMutex
	pending  chan string
	cancels  map[string]context.CancelFunc
	handlers map[Type]Handler
	subs     map[chan Event]struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewQueue creates a queue. Call Start after registering handlers.
func NewQueue(db *sql.DB) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		db:       db,
		pending:  make(chan string, 100),
		cancels:  make(map[string]context.CancelFunc),
		handlers: make(map[Type]Handler),
		subs:     make(map[chan Event]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start re-queues jobs left unfinished by a previous process and begins
// processing. Handlers must be registered before calling Start, otherwise
// resumed jobs fail with no handler.
func (q *Queue) Start() {
	q.resumeJobs()
	go q.worker()
}

// RegisterHandler registers a handler for a job type.
func (q *Queue) RegisterHandler(jobType Type, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = handler
}

// Enqueue creates a new job and schedules it.
func (q *Queue) Enqueue(jobType Type, filePath string, params interface{}) (*Job, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	j := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    StatusPending,
		FilePath:  filePath,
		Params:    paramsJSON,
		CreatedAt: time.Now(),
	}

	_, err = q.db.Exec(`
		INSERT INTO jobs (id, type, status, file_path, params, progress, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Type, j.Status, j.FilePath, j.Params, j.Progress, j.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	q.publish(Event{JobID: j.ID, Type: j.Type, Status: StatusPending})

	select {
	case q.pending <- j.ID:
	default:
		log.Printf("[job] queue full, job %s will be picked up on restart", j.ID)
	}

	return j, nil
}

// Get retrieves a job by ID.
func (q *Queue) Get(id string) (*Job, error) {
	row := q.db.QueryRow(`
		SELECT id, type, status, file_path, params, progress, result, error, created_at, started_at, completed_at
		FROM jobs WHERE id = ?`, id)
	return scanJob(row)
}

// List returns all jobs, newest first.
func (q *Queue) List() ([]*Job, error) {
	rows, err := q.db.Query(`
		SELECT id, type, status, file_path, params, progress, result, error, created_at, started_at, completed_at
		FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*Job, error) {
	j := &Job{}
	var params, result, errMsg sql.NullString
	var startedAt, completedAt sql.NullTime

	err := row.Scan(&j.ID, &j.Type, &j.Status, &j.FilePath, &params, &j.Progress,
		&result, &errMsg, &j.CreatedAt, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if params.Valid {
		j.Params = json.RawMessage(params.String)
	}
	if result.Valid {
		j.Result = json.RawMessage(result.String)
	}
	if errMsg.Valid {
		j.Error = errMsg.String
	}
	if startedAt.Valid {
		j.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		j.CompletedAt = &completedAt.Time
	}
	return j, nil
}

// Cancel stops a pending or running job.
func (q *Queue) Cancel(id string) error {
	q.mu.Lock()
	if cancelFn, ok := q.cancels[id]; ok {
		cancelFn()
		delete(q.cancels, id)
	}
	q.mu.Unlock()

	_, err := q.db.Exec(`
		UPDATE jobs SET status = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		StatusCancelled, time.Now(), id, StatusPending, StatusRunning,
	)
	if err == nil {
		q.publish(Event{JobID: id, Status: StatusCancelled})
	}
	return err
}

// Retry re-queues a failed or cancelled job from scratch.
func (q *Queue) Retry(id string) (*Job, error) {
	res, err := q.db.Exec(`
		UPDATE jobs SET status = ?, progress = 0, error = NULL, result = NULL, started_at = NULL, completed_at = NULL
		WHERE id = ? AND status IN (?, ?)`,
		StatusPending, id, StatusFailed, StatusCancelled,
	)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("job %s is not in a retryable state", id)
	}

	q.publish(Event{JobID: id, Status: StatusPending})

	select {
	case q.pending <- id:
	default:
	}
	return q.Get(id)
}

// Delete removes a job, cancelling it first if it is still moving.
func (q *Queue) Delete(id string) error {
	q.mu.Lock()
	if cancelFn, ok := q.cancels[id]; ok {
		cancelFn()
		delete(q.cancels, id)
	}
	q.mu.Unlock()

	_, err := q.db.Exec("DELETE FROM jobs WHERE id = ?", id)
	return err
}

// UpdateProgress records progress and notifies watchers.
func (q *Queue) UpdateProgress(id string, progress float64) {
	q.db.Exec("UPDATE jobs SET progress = ? WHERE id = ?", progress, id)
	q.publish(Event{JobID: id, Status: StatusRunning, Progress: progress})
}

// Subscribe returns a channel of queue events and an unsubscribe func.
// Slow receivers lose events rather than blocking the queue.
func (q *Queue) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	q.mu.Lock()
	q.subs[ch] = struct{}{}
	q.mu.Unlock()

	unsubscribe := func() {
		q.mu.Lock()
		if _, ok := q.subs[ch]; ok {
			delete(q.subs, ch)
			close(ch)
		}
		q.mu.Unlock()
	}
	return ch, unsubscribe
}

func (q *Queue) publish(ev Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for ch := range q.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Stop shuts down the queue.
func (q *Queue) Stop() {
	q.cancel()
}

// worker processes jobs from the pending channel one at a time.
func (q *Queue) worker() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case jobID := <-q.pending:
			q.processJob(jobID)
		}
	}
}

func (q *Queue) processJob(jobID string) {
	j, err := q.Get(jobID)
	if err != nil {
		log.Printf("[job] failed to load job %s: %v", jobID, err)
		return
	}
	if j.Status != StatusPending {
		return
	}

	q.mu.RLock()
	handler, ok := q.handlers[j.Type]
	q.mu.RUnlock()
	if !ok {
		q.failJob(j, fmt.Sprintf("no handler for job type: %s", j.Type))
		return
	}

	now := time.Now()
	j.StartedAt = &now
	j.Status = StatusRunning
	q.db.Exec("UPDATE jobs SET status = ?, started_at = ? WHERE id = ?",
		StatusRunning, now, j.ID)
	q.publish(Event{JobID: j.ID, Type: j.Type, Status: StatusRunning})

	ctx, cancelFn := context.WithCancel(q.ctx)
	q.mu.Lock()
	q.cancels[j.ID] = cancelFn
	q.mu.Unlock()

	updateProgress := func(progress float64) {
		q.UpdateProgress(j.ID, progress)
	}

	done := make(chan error, 1)
	go func() {
		done <- handler(ctx, j, updateProgress)
	}()

	select {
	case <-ctx.Done():
		log.Printf("[job] job %s cancelled", j.ID)
	case err := <-done:
		if err != nil {
			q.failJob(j, err.Error())
		} else {
			q.completeJob(j)
		}
	}

	q.mu.Lock()
	delete(q.cancels, j.ID)
	q.mu.Unlock()
	cancelFn()
}

// completeJob and failJob only transition running jobs, so a cancellation
// that races the handler's return keeps its cancelled status. The event is
// published only when the row actually changed.
func (q *Queue) completeJob(j *Job) {
	res, err := q.db.Exec("UPDATE jobs SET status = ?, progress = 1.0, result = ?, completed_at = ? WHERE id = ? AND status = ?",
		StatusCompleted, j.Result, time.Now(), j.ID, StatusRunning)
	if err != nil {
		log.Printf("[job] failed to complete job %s: %v", j.ID, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}
	q.publish(Event{JobID: j.ID, Type: j.Type, Status: StatusCompleted, Progress: 1.0})
	log.Printf("[job] job %s completed", j.ID)
}

func (q *Queue) failJob(j *Job, errMsg string) {
	res, err := q.db.Exec("UPDATE jobs SET status = ?, error = ?, completed_at = ? WHERE id = ? AND status IN (?, ?)",
		StatusFailed, errMsg, time.Now(), j.ID, StatusPending, StatusRunning)
	if err != nil {
		log.Printf("[job] failed to mark job %s failed: %v", j.ID, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}
	q.publish(Event{JobID: j.ID, Type: j.Type, Status: StatusFailed, Error: errMsg})
	log.Printf("[job] job %s failed: %s", j.ID, errMsg)
}

// resumeJobs re-queues whatever the previous process left unfinished.
func (q *Queue) resumeJobs() {
	q.db.Exec("UPDATE jobs SET status = ? WHERE status = ?", StatusPending, StatusRunning)

	rows, err := q.db.Query("SELECT id FROM jobs WHERE status = ? ORDER BY created_at ASC", StatusPending)
	if err != nil {
		log.Printf("[job] failed to resume jobs: %v", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		select {
		case q.pending <- id:
			count++
		default:
		}
	}

	if count > 0 {
		log.Printf("[job] resumed %d pending jobs", count)
	}
}
