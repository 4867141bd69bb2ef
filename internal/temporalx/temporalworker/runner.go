package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	jobrt "github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/temporalx"
	"github.com/yungbote/coursegen-backend/internal/temporalx/jobrun"
)

type Runner struct {
	log *logger.Logger

	tc          temporalsdkclient.Client
	cfg         temporalx.Config
	jobRepo     repos.JobRunRepo
	jobRunner   *jobrt.Runner
	concurrency int
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	jobRepo repos.JobRunRepo,
	jobRunner *jobrt.Runner,
	concurrency int,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if jobRepo == nil || jobRunner == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		log:         log.With("component", "TemporalWorker"),
		tc:          tc,
		cfg:         cfg,
		jobRepo:     jobRepo,
		jobRunner:   jobRunner,
		concurrency: concurrency,
	}, nil
}

// Start begins polling and returns once the worker is running. The worker stops when ctx is done.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	if r.cfg.AutoRegisterNamespace {
		if err := temporalx.EnsureNamespace(ctx, r.log, r.cfg); err != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", r.cfg.Namespace, "error", err)
		}
	}

	maxWait := envutil.Seconds("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)
	backoff := envutil.Millis("TEMPORAL_WORKER_START_BACKOFF_MS", 250)
	backoffMax := envutil.Millis("TEMPORAL_WORKER_START_BACKOFF_MAX_MS", 5000)
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("Temporal worker started", "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			return nil
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && r.cfg.AutoRegisterNamespace {
			_ = temporalx.EnsureNamespace(ctx, r.log, r.cfg)
		}
		if maxWait <= 0 || time.Now().After(deadline) {
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, startErr)
			}
			return startErr
		}
		r.log.Warn("Temporal worker failed to start; retrying", "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue, "attempt", attempt, "error", startErr)
		time.Sleep(temporalx.ClampBackoff(backoff, backoffMax, attempt))
	}
}

func (r *Runner) newWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
	})
	acts := &jobrun.Activities{
		Log:    r.log,
		Jobs:   r.jobRepo,
		Runner: r.jobRunner,
	}
	w.RegisterWorkflowWithOptions(jobrun.Workflow, workflow.RegisterOptions{Name: jobrun.WorkflowName})
	w.RegisterActivityWithOptions(acts.Execute, activity.RegisterOptions{Name: jobrun.ActivityExecute})
	return w
}
