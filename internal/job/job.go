// Package job tracks the lifecycle of analysis jobs: one status record per
// submitted repository, mutated only by the worker that owns the job.
package job

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a job. Transitions are monotonic:
// PENDING -> PROCESSING -> COMPLETE | FAILED, with the last two terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusComplete   Status = "COMPLETE"
	StatusFailed     Status = "FAILED"
)

// rank orders statuses so transitions can be checked for monotonicity.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusComplete, StatusFailed:
		return 2
	}
	return -1
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Record is the single status record retained per job.
type Record struct {
	ID           string    `json:"id"`
	RepoURL      string    `json:"repo_url"`
	Status       Status    `json:"status"`
	DownloadName string    `json:"download_name,omitempty"` // set iff Status is COMPLETE
	ErrorMessage string    `json:"error_message,omitempty"` // set iff Status is FAILED
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewRecord creates a PENDING record for a freshly accepted request.
func NewRecord(id, repoURL string) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        id,
		RepoURL:   repoURL,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the record to next, rejecting regressions and any move out
// of a terminal state.
func (r *Record) Transition(next Status) error {
	if r.Status.Terminal() || next.rank() <= r.Status.rank() {
		return fmt.Errorf("invalid status transition %s -> %s", r.Status, next)
	}
	r.Status = next
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete marks the job COMPLETE and records its download handle.
func (r *Record) Complete(downloadName string) error {
	if err := r.Transition(StatusComplete); err != nil {
		return err
	}
	r.DownloadName = downloadName
	return nil
}

// Fail marks the job FAILED with a short, user-facing message.
func (r *Record) Fail(message string) error {
	if err := r.Transition(StatusFailed); err != nil {
		return err
	}
	r.ErrorMessage = message
	return nil
}
