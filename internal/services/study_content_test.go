package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/study_content"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

func seedCourse(t *testing.T, f *fixture, courseID string) {
	t.Helper()
	_, err := f.courseRepo.Create(dbc(), &types.Course{
		CourseID:     courseID,
		Topic:        "Binary Search Trees",
		CourseType:   "coding",
		CourseLayout: datatypes.JSON(gentest.OutlineJSON("Binary Search Trees", 8, 5)),
	})
	require.NoError(t, err)
}

func TestRequestStudyContentCreatesPlaceholderAndJob(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	seedCourse(t, f, "c1")

	ph, err := f.study.RequestStudyContent(dbc(), StudyContentRequest{CourseID: "c1", Type: "Quiz", Chapters: []string{"Intro", " ", "Rotations"}})
	require.NoError(t, err)
	assert.Equal(t, types.StudyTypeQuiz, ph.Type)
	assert.Equal(t, types.StudyStatusGenerating, ph.Status)
	assert.JSONEq(t, `[]`, string(ph.Content))

	job, err := f.jobs.GetLatestForEntity(dbc(), "study_content", ph.ID.String(), study_content.JobType)
	require.NoError(t, err)
	var payload struct {
		PlaceholderID string   `json:"placeholder_id"`
		Type          string   `json:"type"`
		Chapters      []string `json:"chapters"`
	}
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, ph.ID.String(), payload.PlaceholderID)
	assert.Equal(t, "quiz", payload.Type)
	assert.Equal(t, []string{"Intro", "Rotations"}, payload.Chapters)

	// Each request gets its own placeholder.
	again, err := f.study.RequestStudyContent(dbc(), StudyContentRequest{CourseID: "c1", Type: "quiz", Chapters: []string{"Intro"}})
	require.NoError(t, err)
	assert.NotEqual(t, ph.ID, again.ID)

	rows, err := f.study.FetchStudyContent(dbc(), "c1", "quiz")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Empty(t, f.text.Calls(), "generation runs in the job, not the request")
}

func TestRequestStudyContentValidation(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	seedCourse(t, f, "c1")

	_, err := f.study.RequestStudyContent(dbc(), StudyContentRequest{CourseID: "c1", Type: "essay", Chapters: []string{"a"}})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	_, err = f.study.RequestStudyContent(dbc(), StudyContentRequest{CourseID: "c1", Type: "quiz"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	_, err = f.study.RequestStudyContent(dbc(), StudyContentRequest{CourseID: "nope", Type: "quiz", Chapters: []string{"a"}})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	_, err = f.study.FetchStudyContent(dbc(), "c1", "essay")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestRequestStudyContentSwallowsDispatchFailure(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	seedCourse(t, f, "c1")
	jobs := &failingJobs{}
	f.jobs = jobs
	f.wire(t)

	ph, err := f.study.RequestStudyContent(dbc(), StudyContentRequest{CourseID: "c1", Type: "flashcard", Chapters: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, jobs.calls)

	stored, err := f.study.GetStudyContent(dbc(), ph.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StudyStatusGenerating, stored.Status)
}
