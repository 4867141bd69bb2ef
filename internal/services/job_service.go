package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"gorm.io/datatypes"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/temporalx/jobrun"
)

const (
	DispatchBackendDB       = "db"
	DispatchBackendTemporal = "temporal"
)

// JobService is the fire-and-forget dispatcher. The job_run row is the durable queue;
// the db backend's worker pool polls it, the temporal backend starts a workflow per row.
type JobService interface {
	Dispatch(dbc dbctx.Context, jobType string, entityType string, entityID string, payload map[string]any) (*types.JobRun, error)
	GetByID(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error)
	GetLatestForEntity(dbc dbctx.Context, entityType string, entityID string, jobType string) (*types.JobRun, error)
	HasRunnable(dbc dbctx.Context, entityType string, entityID string, jobType string) (bool, error)
}

type TemporalDispatch struct {
	Client    temporalsdkclient.Client
	TaskQueue string
	Policy    jobrun.Input
}

type jobService struct {
	log      *logger.Logger
	repo     repos.JobRunRepo
	backend  string
	temporal *TemporalDispatch
}

// NewJobService uses the temporal backend when td carries a client, otherwise the db backend.
func NewJobService(baseLog *logger.Logger, repo repos.JobRunRepo, td *TemporalDispatch) JobService {
	backend := DispatchBackendDB
	if td != nil && td.Client != nil {
		backend = DispatchBackendTemporal
	}
	log := baseLog.With("service", "JobService")
	log.Info("Job dispatch backend selected", "backend", backend)
	return &jobService{
		log:      log,
		repo:     repo,
		backend:  backend,
		temporal: td,
	}
}

func (s *jobService) Dispatch(dbc dbctx.Context, jobType string, entityType string, entityID string, payload map[string]any) (*types.JobRun, error) {
	jobType = strings.TrimSpace(jobType)
	if jobType == "" {
		return nil, fmt.Errorf("missing job_type: %w", pkgerrors.ErrInvalidArgument)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	for k, v := range ctxutil.TraceFields(dbc.Ctx) {
		if _, ok := payload[k]; !ok {
			payload[k] = v
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	ownerID := ""
	if td := ctxutil.GetTraceData(dbc.Ctx); td != nil {
		ownerID = td.UserID
	}

	now := time.Now().UTC()
	job := &types.JobRun{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		JobType:    jobType,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     types.JobStatusQueued,
		Stage:      "queued",
		Message:    "Queued",
		Payload:    datatypes.JSON(b),
		Result:     datatypes.JSON([]byte(`{}`)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.repo.Create(dbctx.Context{Ctx: dbc.Ctx, Tx: dbc.Tx}, []*types.JobRun{job}); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.log.Debug("Job enqueued", "job_id", job.ID, "job_type", jobType, "entity_id", entityID, "backend", s.backend)

	if s.backend == DispatchBackendTemporal {
		if err := s.startWorkflow(dbc, job); err != nil {
			return job, err
		}
	}
	return job, nil
}

func (s *jobService) startWorkflow(dbc dbctx.Context, job *types.JobRun) error {
	_, err := jobrun.Start(ctxutil.Default(dbc.Ctx), s.temporal.Client, s.temporal.TaskQueue, job, s.temporal.Policy)
	if err == nil {
		return nil
	}
	var already *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &already) {
		return nil
	}
	now := time.Now().UTC()
	_ = s.repo.UpdateFields(dbctx.Context{Ctx: dbc.Ctx}, job.ID, map[string]interface{}{
		"status":        types.JobStatusFailed,
		"stage":         "dispatch",
		"message":       "",
		"error":         err.Error(),
		"last_error_at": now,
		"updated_at":    now,
	})
	return fmt.Errorf("start temporal workflow: %w", err)
}

func (s *jobService) GetByID(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error) {
	job, err := s.repo.GetByID(dbc, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", jobID, pkgerrors.ErrNotFound)
	}
	return job, nil
}

func (s *jobService) GetLatestForEntity(dbc dbctx.Context, entityType string, entityID string, jobType string) (*types.JobRun, error) {
	job, err := s.repo.GetLatestByEntity(dbc, entityType, entityID, jobType)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%s job for %s %s: %w", jobType, entityType, entityID, pkgerrors.ErrNotFound)
	}
	return job, nil
}

// HasRunnable reports whether a queued or running job of jobType exists for the entity.
func (s *jobService) HasRunnable(dbc dbctx.Context, entityType string, entityID string, jobType string) (bool, error) {
	return s.repo.HasRunnableForEntity(dbc, entityType, entityID, jobType)
}
