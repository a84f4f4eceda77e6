package model

import "time"

// JobStatus is the lifecycle state of an asynchronous summarization job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job tracks one unit of asynchronous work from submission to terminal outcome.
// A job is created by the submission handler and mutated exactly once, by the
// pipeline runner, when work finishes.
type Job struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	Result      string    `json:"result,omitempty"`
	SourceModel string    `json:"source_model,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
}

// JobView is the poll response for a job. The legacy contract reports unknown
// or still-running jobs as {"status":"processing"} and terminal jobs as a
// summary body, so the view keeps both shapes in one struct.
type JobView struct {
	Status  string `json:"status,omitempty"`
	Summary string `json:"summary,omitempty"`
}
