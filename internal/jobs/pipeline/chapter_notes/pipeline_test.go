package chapter_notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
	"github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
)

// recordingNotes captures Insert order. A non-nil insertErr fails every Insert.
type recordingNotes struct {
	repos.ChapterNoteRepo
	mu        sync.Mutex
	inserts   []int
	insertErr error
}

func (r *recordingNotes) Insert(dbc dbctx.Context, courseID string, chapterID int, notes string) (bool, error) {
	r.mu.Lock()
	r.inserts = append(r.inserts, chapterID)
	insertErr := r.insertErr
	r.mu.Unlock()
	if insertErr != nil {
		return false, insertErr
	}
	return r.ChapterNoteRepo.Insert(dbc, courseID, chapterID, notes)
}

type fixture struct {
	t       *testing.T
	courses repos.CourseRepo
	notes   *recordingNotes
	jobs    repos.JobRunRepo
	runner  *runtime.Runner
}

func newFixture(t *testing.T, text *gentest.Text) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		t:       t,
		courses: repos.NewCourseRepo(db, log),
		notes:   &recordingNotes{ChapterNoteRepo: repos.NewChapterNoteRepo(db, log)},
		jobs:    repos.NewJobRunRepo(db, log),
	}
	gen := generation.NewGenerator(text, generation.DefaultProfiles(), 2*time.Second, log)
	registry := runtime.NewRegistry()
	require.NoError(t, registry.Register(New(log, f.courses, f.notes, gen)))
	f.runner = runtime.NewRunner(f.jobs, registry, time.Minute, log)
	return f
}

func (f *fixture) createCourse(courseID, topic string, chapters int) {
	f.t.Helper()
	_, err := f.courses.Create(testutil.DBC(), &types.Course{
		CourseID:     courseID,
		Topic:        topic,
		CourseType:   "coding",
		CourseLayout: datatypes.JSON(gentest.OutlineJSON(topic, chapters, 5)),
	})
	require.NoError(f.t, err)
}

func (f *fixture) run(courseID string) (*types.JobRun, error) {
	f.t.Helper()
	return f.runAttempt(courseID, 1)
}

func (f *fixture) runAttempt(courseID string, attempt int) (*types.JobRun, error) {
	f.t.Helper()
	payload, _ := json.Marshal(map[string]any{"course_id": courseID})
	created, err := f.jobs.Create(testutil.DBC(), []*types.JobRun{{
		JobType:    JobType,
		EntityType: "course",
		EntityID:   courseID,
		Status:     types.JobStatusRunning,
		Stage:      "running",
		Payload:    datatypes.JSON(payload),
	}})
	require.NoError(f.t, err)
	created[0].Attempts = attempt
	runErr := f.runner.Run(testutil.DBC().Ctx, created[0])
	job, err := f.jobs.GetByID(testutil.DBC(), created[0].ID)
	require.NoError(f.t, err)
	return job, runErr
}

func (f *fixture) course(courseID string) *types.Course {
	f.t.Helper()
	c, err := f.courses.GetByCourseID(testutil.DBC(), courseID)
	require.NoError(f.t, err)
	require.NotNil(f.t, c)
	return c
}

func htmlText() *gentest.Text {
	return &gentest.Text{Respond: func(n int, call gentest.Call) (string, error) {
		return fmt.Sprintf("```html\n<h3>Notes %d</h3><p>%s</p>\n```", n, call.User[:20]), nil
	}}
}

func TestChapterNotesBinarySearchTrees(t *testing.T) {
	text := htmlText()
	f := newFixture(t, text)
	f.createCourse("bst-1", "Binary Search Trees", 8)

	job, err := f.run("bst-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusSucceeded, job.Status)
	assert.Equal(t, 100, job.Progress)

	assert.Equal(t, types.CourseStatusReady, f.course("bst-1").Status)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, f.notes.inserts)
	assert.Len(t, text.Calls(), 8)

	notes, err := f.notes.ListByCourse(testutil.DBC(), "bst-1")
	require.NoError(t, err)
	require.Len(t, notes, 8)
	for i, n := range notes {
		assert.Equal(t, i, n.ChapterID)
		assert.NotContains(t, n.Notes, "```")
		assert.True(t, strings.HasPrefix(n.Notes, "<h3>"))
	}
	for i, call := range text.Calls() {
		assert.Contains(t, call.User, fmt.Sprintf("Chapter %d of 8", i+1))
		assert.Equal(t, 8192, call.Opts.MaxTokens)
	}
}

func TestChapterNotesFailureStopsAtChapter(t *testing.T) {
	const failAt = 3
	text := &gentest.Text{Respond: func(n int, _ gentest.Call) (string, error) {
		if n == failAt {
			return "", errors.New("upstream exploded")
		}
		return fmt.Sprintf("<p>chapter %d</p>", n), nil
	}}
	f := newFixture(t, text)
	f.createCourse("c-fail", "Graphs", 8)

	job, err := f.run("c-fail")
	require.Error(t, err)
	assert.True(t, runtime.IsPermanent(err))
	assert.ErrorIs(t, err, generation.ErrGeneration)

	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.True(t, job.NoRetry)

	c := f.course("c-fail")
	assert.Equal(t, types.CourseStatusError, c.Status)
	assert.True(t, strings.HasPrefix(c.StatusMessage, "chapter 3:"), c.StatusMessage)

	// Only the clean prefix below the failing chapter is stored.
	assert.Equal(t, []int{0, 1, 2}, f.notes.inserts)
	existing, err := f.notes.ExistingChapterIDs(testutil.DBC(), "c-fail")
	require.NoError(t, err)
	for idx := range existing {
		assert.Less(t, idx, failAt)
	}
	assert.Len(t, text.Calls(), failAt+1)
}

func TestChapterNotesRerunSkipsExisting(t *testing.T) {
	text := htmlText()
	f := newFixture(t, text)
	f.createCourse("c-rerun", "Heaps", 8)

	for _, idx := range []int{0, 1, 2} {
		_, err := f.notes.ChapterNoteRepo.Insert(testutil.DBC(), "c-rerun", idx, fmt.Sprintf("<p>kept %d</p>", idx))
		require.NoError(t, err)
	}

	job, err := f.run("c-rerun")
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusSucceeded, job.Status)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, f.notes.inserts)
	assert.Len(t, text.Calls(), 5)

	kept, err := f.notes.Get(testutil.DBC(), "c-rerun", 0)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "<p>kept 0</p>", kept.Notes)
	assert.Equal(t, types.CourseStatusReady, f.course("c-rerun").Status)
}

func TestChapterNotesRedeliveryAfterReady(t *testing.T) {
	text := htmlText()
	f := newFixture(t, text)
	f.createCourse("c-twice", "Tries", 8)

	_, err := f.run("c-twice")
	require.NoError(t, err)
	job, err := f.run("c-twice")
	require.NoError(t, err)

	assert.Equal(t, "skipped", job.Stage)
	assert.Len(t, text.Calls(), 8)
	notes, err := f.notes.ListByCourse(testutil.DBC(), "c-twice")
	require.NoError(t, err)
	assert.Len(t, notes, 8)
}

func TestChapterNotesMissingCourse(t *testing.T) {
	f := newFixture(t, htmlText())

	job, err := f.run("does-not-exist")
	require.Error(t, err)
	assert.True(t, runtime.IsPermanent(err))
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, "load", job.Stage)
}

func TestChapterNotesStoreFailureRetriesBeforeLastAttempt(t *testing.T) {
	f := newFixture(t, htmlText())
	f.runner.SetMaxAttempts(3)
	f.notes.insertErr = errors.New("connection reset")
	f.createCourse("c-flaky", "Queues", 8)

	job, err := f.runAttempt("c-flaky", 2)
	require.Error(t, err)
	assert.False(t, runtime.IsPermanent(err))
	assert.False(t, job.NoRetry)
	assert.Equal(t, types.CourseStatusGenerating, f.course("c-flaky").Status)
}

func TestChapterNotesLastAttemptSettlesCourseError(t *testing.T) {
	f := newFixture(t, htmlText())
	f.runner.SetMaxAttempts(3)
	f.notes.insertErr = errors.New("connection reset")
	f.createCourse("c-exhausted", "Queues", 8)

	job, err := f.runAttempt("c-exhausted", 3)
	require.Error(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, "notes", job.Stage)

	c := f.course("c-exhausted")
	assert.Equal(t, types.CourseStatusError, c.Status)
	assert.Contains(t, c.StatusMessage, "store notes: connection reset")
}

func TestChapterNotesFailureKeepsSettledCourse(t *testing.T) {
	var f *fixture
	text := &gentest.Text{Respond: func(n int, _ gentest.Call) (string, error) {
		if n == 5 {
			// A concurrent run finished first.
			require.NoError(t, f.courses.SetStatus(testutil.DBC(), "c-race", types.CourseStatusReady, ""))
			return "", errors.New("upstream exploded")
		}
		return fmt.Sprintf("<p>chapter %d</p>", n), nil
	}}
	f = newFixture(t, text)
	f.createCourse("c-race", "Stacks", 8)

	job, err := f.run("c-race")
	require.Error(t, err)
	assert.True(t, runtime.IsPermanent(err))
	assert.True(t, job.NoRetry)

	c := f.course("c-race")
	assert.Equal(t, types.CourseStatusReady, c.Status)
	assert.Empty(t, c.StatusMessage)
}

func TestChapterNotesFinalizeKeepsSettledCourse(t *testing.T) {
	var f *fixture
	text := &gentest.Text{Respond: func(n int, _ gentest.Call) (string, error) {
		if n == 7 {
			require.NoError(t, f.courses.SetStatus(testutil.DBC(), "c-late", types.CourseStatusError, "cancelled elsewhere"))
		}
		return fmt.Sprintf("<p>chapter %d</p>", n), nil
	}}
	f = newFixture(t, text)
	f.createCourse("c-late", "Deques", 8)

	job, err := f.run("c-late")
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusSucceeded, job.Status)
	assert.Equal(t, "skipped", job.Stage)

	c := f.course("c-late")
	assert.Equal(t, types.CourseStatusError, c.Status)
	assert.Equal(t, "cancelled elsewhere", c.StatusMessage)
}
