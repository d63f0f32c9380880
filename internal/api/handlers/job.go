package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scribeflow/backend/internal/job"
	"github.com/scribeflow/backend/internal/transcript"
)

type JobHandler struct {
	queue *job.Queue
	store *transcript.Store
}

func NewJobHandler(queue *job.Queue, store *transcript.Store) *JobHandler {
	return &JobHandler{queue: queue, store: store}
}

// List returns all jobs, newest first
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.queue.List()
	if err != nil {
		jsonError(w, "failed to list jobs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []*job.Job{}
	}
	jsonResponse(w, jobs, http.StatusOK)
}

// Get returns a single job by ID
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, err := h.queue.Get(id)
	if err != nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, j, http.StatusOK)
}

// Cancel stops a pending or running job
func (h *JobHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.queue.Cancel(id); err != nil {
		jsonError(w, "failed to cancel job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Retry re-queues a failed or cancelled job
func (h *JobHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, err := h.queue.Retry(id)
	if err != nil {
		jsonError(w, "failed to retry job: "+err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, j, http.StatusOK)
}

// Delete removes a job record. A transcript parked for the job goes too.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if j, err := h.queue.Get(id); err == nil && len(j.Result) > 0 {
		var res job.TranscribeResult
		if json.Unmarshal(j.Result, &res) == nil && res.TranscriptID != "" {
			h.store.Delete(res.TranscriptID)
		}
	}

	if err := h.queue.Delete(id); err != nil {
		jsonError(w, "failed to delete job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
