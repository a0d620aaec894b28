package models

import (
	"time"

	"github.com/google/uuid"
)

// PipelineRun status constants
const (
	RunStarted   = "started"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// PipelineRun is one recorded attempt to turn a topic into published
// content. The referenced topic is not required to still exist.
type PipelineRun struct {
	ID         int64      `json:"id"`
	TopicID    int64      `json:"topic_id"`
	JobID      uuid.UUID  `json:"job_id"`
	Status     string     `json:"status"`
	Detail     string     `json:"detail"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// IsTerminal returns true once the run has reached a final outcome.
func (r *PipelineRun) IsTerminal() bool {
	return r.Status == RunSucceeded || r.Status == RunFailed
}

// ValidRunTransition reports whether a run may move from one status to
// another: started is the only initial state, both outcomes are
// terminal and absorb all later writes.
func ValidRunTransition(from, to string) bool {
	if from != RunStarted {
		return false
	}
	return to == RunSucceeded || to == RunFailed
}
