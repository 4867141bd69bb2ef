package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
)

type fixture struct {
	courseRepo  repos.CourseRepo
	noteRepo    repos.ChapterNoteRepo
	contentRepo repos.StudyContentRepo
	testRepo    repos.PracticeTestRepo
	resultRepo  repos.QuizResultRepo
	jobRepo     repos.JobRunRepo

	text *gentest.Text
	jobs JobService

	courses    CourseService
	study      StudyContentService
	assessment AssessmentService
}

func newFixture(t *testing.T, text *gentest.Text) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		courseRepo:  repos.NewCourseRepo(db, log),
		noteRepo:    repos.NewChapterNoteRepo(db, log),
		contentRepo: repos.NewStudyContentRepo(db, log),
		testRepo:    repos.NewPracticeTestRepo(db, log),
		resultRepo:  repos.NewQuizResultRepo(db, log),
		jobRepo:     repos.NewJobRunRepo(db, log),
		text:        text,
	}
	f.jobs = NewJobService(log, f.jobRepo, nil)
	f.wire(t)
	return f
}

func (f *fixture) wire(t *testing.T) {
	log := testutil.Logger(t)
	gen := generation.NewGenerator(f.text, generation.DefaultProfiles(), 2*time.Second, log)
	f.courses = NewCourseService(log, f.courseRepo, f.noteRepo, gen, f.jobs)
	f.study = NewStudyContentService(log, f.courseRepo, f.contentRepo, f.jobs)
	f.assessment = NewAssessmentService(log, f.testRepo, f.resultRepo, f.contentRepo)
}

// failingJobs simulates a dispatcher that cannot hand off work.
type failingJobs struct{ calls int }

func (j *failingJobs) Dispatch(dbctx.Context, string, string, string, map[string]any) (*types.JobRun, error) {
	j.calls++
	return nil, errors.New("queue unavailable")
}

func (j *failingJobs) GetByID(dbctx.Context, uuid.UUID) (*types.JobRun, error) {
	return nil, errors.New("queue unavailable")
}

func (j *failingJobs) GetLatestForEntity(dbctx.Context, string, string, string) (*types.JobRun, error) {
	return nil, errors.New("queue unavailable")
}

func (j *failingJobs) HasRunnable(dbctx.Context, string, string, string) (bool, error) {
	return false, nil
}

func dbc() dbctx.Context { return testutil.DBC() }
