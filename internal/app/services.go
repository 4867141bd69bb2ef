package app

import (
	"fmt"

	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/chapter_notes"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/study_content"
	jobrt "github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/jobs/worker"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
	"github.com/yungbote/coursegen-backend/internal/temporalx/jobrun"
	"github.com/yungbote/coursegen-backend/internal/temporalx/temporalworker"
)

type Services struct {
	Jobs         services.JobService
	Courses      services.CourseService
	StudyContent services.StudyContentService
	Assessment   services.AssessmentService

	JobRegistry    *jobrt.Registry
	JobRunner      *jobrt.Runner
	JobWorker      *worker.Worker
	TemporalWorker *temporalworker.Runner
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	profiles, err := generation.LoadProfiles(cfg.GenerationProfiles)
	if err != nil {
		return Services{}, err
	}
	gen := generation.NewGenerator(clients.OpenaiClient, profiles, cfg.GenerationCallTimeout, log)

	workerCfg := worker.ConfigFromEnv()
	var td *services.TemporalDispatch
	if clients.Temporal != nil {
		td = &services.TemporalDispatch{
			Client:    clients.Temporal,
			TaskQueue: clients.TemporalCfg.TaskQueue,
			Policy: jobrun.Input{
				MaxAttempts: int32(workerCfg.MaxAttempts),
				RetryDelay:  workerCfg.RetryDelay,
			},
		}
	}
	jobs := services.NewJobService(log, reposet.JobRun, td)

	out := Services{
		Jobs:         jobs,
		Courses:      services.NewCourseService(log, reposet.Course, reposet.ChapterNote, gen, jobs),
		StudyContent: services.NewStudyContentService(log, reposet.Course, reposet.StudyContent, jobs),
		Assessment:   services.NewAssessmentService(log, reposet.PracticeTest, reposet.QuizResult, reposet.StudyContent),
	}

	if !cfg.RunsWorkers() {
		return out, nil
	}

	registry := jobrt.NewRegistry()
	handlers := []jobrt.Handler{
		chapter_notes.New(log, reposet.Course, reposet.ChapterNote, gen),
		study_content.New(log, reposet.Course, reposet.StudyContent, gen),
	}
	for _, h := range handlers {
		if err := registry.Register(h); err != nil {
			return Services{}, fmt.Errorf("register job handler: %w", err)
		}
	}
	log.Info("Job handlers registered", "types", registry.Types())

	out.JobRegistry = registry
	out.JobRunner = jobrt.NewRunner(reposet.JobRun, registry, cfg.JobHeartbeat, log)
	out.JobRunner.SetMaxAttempts(workerCfg.MaxAttempts)

	if clients.Temporal != nil {
		tw, err := temporalworker.NewRunner(log, clients.Temporal, clients.TemporalCfg, reposet.JobRun, out.JobRunner, workerCfg.Concurrency)
		if err != nil {
			return Services{}, fmt.Errorf("init temporal worker: %w", err)
		}
		out.TemporalWorker = tw
	} else {
		out.JobWorker = worker.NewWorker(log, reposet.JobRun, out.JobRunner, workerCfg)
	}
	return out, nil
}
