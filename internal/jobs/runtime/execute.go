package runtime

import (
	"context"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const defaultHeartbeatEvery = 30 * time.Second

/*
Runner executes one claimed job against its registered handler.
It is shared by the polling worker and the Temporal activity so both backends
settle job_run rows the same way.
*/
type Runner struct {
	repo           repos.JobRunRepo
	registry       *Registry
	log            *logger.Logger
	heartbeatEvery time.Duration
	maxAttempts    int
}

func NewRunner(repo repos.JobRunRepo, registry *Registry, heartbeatEvery time.Duration, baseLog *logger.Logger) *Runner {
	if heartbeatEvery <= 0 {
		heartbeatEvery = defaultHeartbeatEvery
	}
	return &Runner{
		repo:           repo,
		registry:       registry,
		log:            baseLog.With("component", "JobRunner"),
		heartbeatEvery: heartbeatEvery,
	}
}

// SetMaxAttempts tells the runner how many attempts the queue grants a job.
// Zero leaves exhaustion to the queue alone.
func (r *Runner) SetMaxAttempts(n int) {
	if n < 0 {
		n = 0
	}
	r.maxAttempts = n
}

/*
Run executes job and returns the failure recorded for it, or nil on success.
A handler that returns without settling the run is marked succeeded; a handler
that returns an error without calling Fail is failed with that error.
*/
func (r *Runner) Run(ctx context.Context, job *types.JobRun) error {
	jc := NewContext(ctx, job, r.repo)

	h, ok := r.registry.Get(job.JobType)
	if !ok {
		r.log.Warn("No handler registered for job_type", "job_type", job.JobType, "job_id", job.ID)
		jc.Fail("dispatch", Permanent(&MissingHandlerError{JobType: job.JobType}))
		return jc.Failure()
	}

	hbCtx, stopHeartbeat := context.WithCancel(jc.Ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.heartbeat(hbCtx, job)
	}()

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("Job handler panic",
					"job_id", job.ID,
					"job_type", job.JobType,
					"panic", rec,
				)
				jc.Fail("panic", &PanicError{Val: rec})
			}
		}()
		if runErr := h.Run(jc); runErr != nil && !jc.Settled() {
			jc.Fail("run", runErr)
		}
	}()

	stopHeartbeat()
	<-done

	if !jc.Settled() {
		jc.Succeed("done", nil)
	}
	if err := jc.Failure(); err != nil {
		r.log.Warn("Job failed",
			"job_id", job.ID,
			"job_type", job.JobType,
			"stage", job.Stage,
			"permanent", IsPermanent(err),
			"error", err,
		)
		if r.exhausted(job, err) {
			r.settleExhausted(h, jc, err)
		}
		return err
	}
	r.log.Debug("Job succeeded", "job_id", job.ID, "job_type", job.JobType)
	return nil
}

func (r *Runner) exhausted(job *types.JobRun, err error) bool {
	return r.maxAttempts > 0 && !IsPermanent(err) && job.Attempts >= r.maxAttempts
}

func (r *Runner) settleExhausted(h Handler, jc *Context, cause error) {
	eh, ok := h.(ExhaustedHandler)
	if !ok {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Job exhausted hook panic", "job_id", jc.Job.ID, "panic", rec)
		}
	}()
	r.log.Warn("Job attempts exhausted",
		"job_id", jc.Job.ID,
		"job_type", jc.Job.JobType,
		"attempts", jc.Job.Attempts,
	)
	eh.Exhausted(jc, cause)
}

func (r *Runner) heartbeat(ctx context.Context, job *types.JobRun) {
	ticker := time.NewTicker(r.heartbeatEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.repo.Heartbeat(dbctx.Context{Ctx: ctx}, job.ID); err != nil && ctx.Err() == nil {
				r.log.Warn("Job heartbeat failed", "job_id", job.ID, "error", err)
			}
		}
	}
}
