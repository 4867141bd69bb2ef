package jobrun

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = 30 * time.Second
)

// Workflow executes one job_run row. Redelivery comes from the activity retry policy.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	jobID := strings.TrimSpace(workflow.GetInfo(ctx).WorkflowExecution.ID)
	if jobID == "" {
		return Result{}, fmt.Errorf("jobrun: missing job_id")
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 6 * time.Hour,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy:         retryPolicy(in),
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivityExecute, jobID).Get(ctx, &out); err != nil {
		return out, err
	}
	return out, nil
}

func retryPolicy(in Input) *temporal.RetryPolicy {
	maxAttempts := in.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	delay := in.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return &temporal.RetryPolicy{
		InitialInterval:        delay,
		BackoffCoefficient:     2,
		MaximumInterval:        10 * delay,
		MaximumAttempts:        maxAttempts,
		NonRetryableErrorTypes: []string{ErrTypePermanent},
	}
}
