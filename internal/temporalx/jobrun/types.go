package jobrun

import "time"

const (
	WorkflowName    = "job_run"
	ActivityExecute = "job_run_execute"

	// ErrTypePermanent is the application error type for failures the activity must not retry.
	ErrTypePermanent = "permanent_job_failure"
)

// Input carries the redelivery policy; the job id is the workflow id.
type Input struct {
	MaxAttempts int32         `json:"max_attempts"`
	RetryDelay  time.Duration `json:"retry_delay"`
}

type Result struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Stage  string `json:"stage,omitempty"`
}
