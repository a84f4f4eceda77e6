package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobRegistry is the process-wide, concurrency-safe store of job outcomes.
// It is the authoritative state consulted by the polling endpoint. Entries
// accumulate until swept by EvictTerminalBefore.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobRegistry creates an empty job registry
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{
		jobs: make(map[string]*Job),
	}
}

// Create allocates a fresh job in pending state and returns it.
func (r *JobRegistry) Create(sourceModel string) *Job {
	job := &Job{
		ID:          uuid.New().String(),
		Status:      JobStatusPending,
		SourceModel: sourceModel,
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job

	return job
}

// Complete transitions a pending job to completed, storing the summary.
// Transitions out of a terminal state are ignored: the first outcome written
// for a job wins.
func (r *JobRegistry) Complete(jobID, summary string) bool {
	return r.finish(jobID, JobStatusCompleted, summary)
}

// Fail transitions a pending job to failed. The error text is surfaced as the
// job's visible result with the legacy "Error: " prefix, so clients that only
// look at the summary field still see what happened.
func (r *JobRegistry) Fail(jobID, message string) bool {
	return r.finish(jobID, JobStatusFailed, "Error: "+message)
}

func (r *JobRegistry) finish(jobID string, status JobStatus, result string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[jobID]
	if !exists || job.Status.Terminal() {
		return false
	}

	job.Status = status
	job.Result = result
	job.FinishedAt = time.Now().UTC()
	return true
}

// Get retrieves a job by ID
func (r *JobRegistry) Get(jobID string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, exists := r.jobs[jobID]
	return job, exists
}

// View returns the poll response for a job ID. Unknown IDs and pending jobs
// both report "processing"; the legacy clients poll until a summary appears
// and must never receive a not-found error.
func (r *JobRegistry) View(jobID string) JobView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[jobID]
	if !exists || job.Status == JobStatusPending {
		return JobView{Status: "processing"}
	}

	if job.Status == JobStatusFailed {
		return JobView{Status: "failed", Summary: job.Result}
	}

	return JobView{Summary: job.Result}
}

// EvictTerminalBefore removes terminal jobs that finished before the cutoff,
// bounding registry growth in long-running processes. Pending jobs are never
// evicted. Returns the number of entries removed.
func (r *JobRegistry) EvictTerminalBefore(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, job := range r.jobs {
		if job.Status.Terminal() && job.FinishedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked jobs
func (r *JobRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
