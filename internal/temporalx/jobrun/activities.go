package jobrun

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	jobrt "github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type Activities struct {
	Log    *logger.Logger
	Jobs   repos.JobRunRepo
	Runner *jobrt.Runner
	// HeartbeatEvery defaults to 10s.
	HeartbeatEvery time.Duration
}

// Execute runs the job once. Permanent failures are returned as non-retryable application errors.
func (a *Activities) Execute(ctx context.Context, jobID string) (Result, error) {
	res := Result{JobID: strings.TrimSpace(jobID)}
	if a == nil || a.Jobs == nil || a.Runner == nil {
		return res, fmt.Errorf("jobrun: activity not configured")
	}
	id, err := uuid.Parse(res.JobID)
	if err != nil || id == uuid.Nil {
		return res, temporal.NewNonRetryableApplicationError("jobrun: invalid job_id", ErrTypePermanent, err)
	}

	job, err := a.Jobs.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return res, err
	}
	if job == nil {
		return res, temporal.NewNonRetryableApplicationError("jobrun: job not found", ErrTypePermanent, nil)
	}
	switch job.Status {
	case types.JobStatusSucceeded, types.JobStatusCanceled:
		res.Status, res.Stage = job.Status, job.Stage
		return res, nil
	case types.JobStatusFailed:
		if job.NoRetry {
			res.Status, res.Stage = job.Status, job.Stage
			return res, temporal.NewNonRetryableApplicationError(job.Error, ErrTypePermanent, nil)
		}
	}

	job, err = a.Jobs.MarkRunning(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return res, err
	}
	if job == nil {
		return res, temporal.NewNonRetryableApplicationError("jobrun: job not found", ErrTypePermanent, nil)
	}

	stop := a.startHeartbeat(ctx)
	runErr := a.Runner.Run(ctx, job)
	stop()

	res.Status, res.Stage = job.Status, job.Stage
	if runErr == nil {
		return res, nil
	}
	if jobrt.IsPermanent(runErr) {
		return res, temporal.NewNonRetryableApplicationError(runErr.Error(), ErrTypePermanent, runErr)
	}
	return res, runErr
}

func (a *Activities) startHeartbeat(ctx context.Context) func() {
	every := a.HeartbeatEvery
	if every <= 0 {
		every = 10 * time.Second
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
