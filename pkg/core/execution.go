package core

import "time"

// ExecutionState is the lifecycle state a hosted query service reports
// for an asynchronous execution.
type ExecutionState string

// Remote execution states.
const (
	StateQueued    ExecutionState = "QUERY_STATE_QUEUED"
	StatePending   ExecutionState = "QUERY_STATE_PENDING"
	StateExecuting ExecutionState = "QUERY_STATE_EXECUTING"
	StateCompleted ExecutionState = "QUERY_STATE_COMPLETED"
	StateFailed    ExecutionState = "QUERY_STATE_FAILED"
)

// Terminal reports whether the state is final.
func (s ExecutionState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Execution is the remote handle for an asynchronous analytics query.
// A timeout error carries the execution ID so the caller can resume
// polling instead of losing the result.
type Execution struct {
	ID          string         `json:"execution_id"`
	QueryID     int            `json:"query_id"`
	State       ExecutionState `json:"state"`
	SubmittedAt time.Time      `json:"submitted_at"`
}
