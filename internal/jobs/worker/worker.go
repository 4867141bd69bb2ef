package worker

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type Config struct {
	Concurrency  int
	PollInterval time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
	StaleRunning time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Concurrency:  envutil.Int("WORKER_CONCURRENCY", 4),
		PollInterval: time.Second,
		MaxAttempts:  envutil.Int("JOB_MAX_ATTEMPTS", 5),
		RetryDelay:   envutil.Seconds("JOB_RETRY_DELAY_SECONDS", 30),
		StaleRunning: time.Duration(envutil.Int("JOB_STALE_RUNNING_MINUTES", 30)) * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 5
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.StaleRunning <= 0 {
		c.StaleRunning = 30 * time.Minute
	}
	return c
}

type Worker struct {
	log    *logger.Logger
	repo   repos.JobRunRepo
	runner *runtime.Runner
	cfg    Config
	wg     sync.WaitGroup
}

func NewWorker(baseLog *logger.Logger, repo repos.JobRunRepo, runner *runtime.Runner, cfg Config) *Worker {
	return &Worker{
		log:    baseLog.With("component", "JobWorker"),
		repo:   repo,
		runner: runner,
		cfg:    cfg.withDefaults(),
	}
}

// Start launches the poll loops and returns immediately. Wait blocks until they exit.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Starting job worker pool",
		"concurrency", w.cfg.Concurrency,
		"max_attempts", w.cfg.MaxAttempts,
	)
	for i := 0; i < w.cfg.Concurrency; i++ {
		workerID := i + 1
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runLoop(ctx, workerID)
		}()
	}
}

func (w *Worker) Wait() { w.wg.Wait() }

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			// Drain everything runnable before waiting for the next tick.
			for ctx.Err() == nil && w.RunOnce(ctx, workerID) {
			}
		}
	}
}

// RunOnce claims and executes at most one job. It reports whether a job was claimed.
func (w *Worker) RunOnce(ctx context.Context, workerID int) bool {
	job, err := w.repo.ClaimNextRunnable(dbctx.Context{Ctx: ctx}, w.cfg.MaxAttempts, w.cfg.RetryDelay, w.cfg.StaleRunning)
	if err != nil {
		w.log.Warn("ClaimNextRunnable failed", "worker_id", workerID, "error", err)
		return false
	}
	if job == nil {
		return false
	}
	w.log.Debug("Claimed job",
		"worker_id", workerID,
		"job_id", job.ID,
		"job_type", job.JobType,
		"attempt", job.Attempts,
	)
	_ = w.runner.Run(ctx, job)
	return true
}
