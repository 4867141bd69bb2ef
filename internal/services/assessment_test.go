package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/pkg/pointers"
)

func readyQuiz(t *testing.T, f *fixture, courseID string) *types.StudyTypeContent {
	t.Helper()
	ph, err := f.contentRepo.CreatePlaceholder(dbc(), courseID, types.StudyTypeQuiz, []string{"Intro"})
	require.NoError(t, err)
	ok, err := f.contentRepo.Fill(dbc(), ph.ID, datatypes.JSON(gentest.QuizJSON(20)))
	require.NoError(t, err)
	require.True(t, ok)
	row, err := f.contentRepo.GetByID(dbc(), ph.ID)
	require.NoError(t, err)
	return row
}

func TestPracticeTestLifecycle(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	seedCourse(t, f, "c1")
	quiz := readyQuiz(t, f, "c1")

	_, err := f.assessment.FetchTest(dbc(), "c1", 2, "u1")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	test, err := f.assessment.CreateTest(dbc(), CreateTestInput{UserID: "u1", CourseID: "c1", ChapterID: 2, StudyContentID: quiz.ID})
	require.NoError(t, err)
	assert.Equal(t, types.TestStatusPending, test.Status)
	assert.Equal(t, 20, test.TotalQuestions)

	fetched, err := f.assessment.FetchTest(dbc(), "c1", 2, "u1")
	require.NoError(t, err)
	assert.Equal(t, test.ID, fetched.ID)

	// QuizJSON answers question i with option i%4; question 0's answer is "A0".
	submitted, err := f.assessment.SubmitTest(dbc(), test.ID, map[string]string{"0": "A0", "1": "wrong"}, 42)
	require.NoError(t, err)
	assert.Equal(t, types.TestStatusCompleted, submitted.Status)
	assert.Equal(t, 1, submitted.Score)
	assert.Equal(t, 42, submitted.TimeSpent)
	require.NotNil(t, submitted.CompletedAt)
	assert.JSONEq(t, `{"0":"A0","1":"wrong"}`, string(submitted.Answers))

	// Last write wins.
	time.Sleep(5 * time.Millisecond)
	resubmitted, err := f.assessment.SubmitTest(dbc(), test.ID, map[string]string{"0": "A0", "1": "B1"}, 7)
	require.NoError(t, err)
	assert.Equal(t, types.TestStatusCompleted, resubmitted.Status)
	assert.Equal(t, 2, resubmitted.Score)
	assert.Equal(t, 7, resubmitted.TimeSpent)
	assert.False(t, resubmitted.CompletedAt.Before(*submitted.CompletedAt))
}

func TestSubmitTestScenario(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	questions, _ := json.Marshal([]types.QuizItem{{Question: "Q?", Options: []string{"A", "B", "C", "D"}, Answer: "A"}})
	test, err := f.testRepo.Create(dbc(), &types.PracticeTest{UserID: "u1", CourseID: "c1", ChapterID: 0, Questions: datatypes.JSON(questions), TotalQuestions: 1})
	require.NoError(t, err)

	got, err := f.assessment.SubmitTest(dbc(), test.ID, map[string]string{"0": "A"}, 42)
	require.NoError(t, err)
	assert.Equal(t, types.TestStatusCompleted, got.Status)
	assert.Equal(t, 42, got.TimeSpent)
	assert.Equal(t, 1, got.Score)
	assert.NotNil(t, got.CompletedAt)
}

func TestSubmitTestNotFound(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	_, err := f.assessment.SubmitTest(dbc(), uuid.New(), map[string]string{"0": "A"}, 42)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	_, err = f.assessment.SubmitTest(dbc(), uuid.New(), nil, -1)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestCreateTestRequiresReadyQuiz(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	seedCourse(t, f, "c1")

	pending, err := f.contentRepo.CreatePlaceholder(dbc(), "c1", types.StudyTypeQuiz, []string{"Intro"})
	require.NoError(t, err)
	_, err = f.assessment.CreateTest(dbc(), CreateTestInput{UserID: "u1", CourseID: "c1", StudyContentID: pending.ID})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	cards, err := f.contentRepo.CreatePlaceholder(dbc(), "c1", types.StudyTypeFlashcard, []string{"Intro"})
	require.NoError(t, err)
	_, err = f.assessment.CreateTest(dbc(), CreateTestInput{UserID: "u1", CourseID: "c1", StudyContentID: cards.ID})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	quiz := readyQuiz(t, f, "c1")
	_, err = f.assessment.CreateTest(dbc(), CreateTestInput{UserID: "u1", CourseID: "other", StudyContentID: quiz.ID})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestRecordQuizResultDefaultsChapterToOne(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))

	res, err := f.assessment.RecordQuizResult(dbc(), RecordQuizResultInput{
		UserID: "u1", CourseID: "c1", Score: 8, TotalQuestions: 10, TimeSpent: 120,
		Answers: json.RawMessage(`{"0":"A"}`),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, 1, res.ChapterID, "omitted chapter id defaults to 1")

	zero, err := f.assessment.RecordQuizResult(dbc(), RecordQuizResultInput{
		UserID: "u1", CourseID: "c1", ChapterID: pointers.Int(0), Score: 3, TotalQuestions: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, zero.ChapterID, "an explicit chapter 0 is kept")
}

func TestRecordQuizResultAppends(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	first, err := f.assessment.RecordQuizResult(dbc(), RecordQuizResultInput{UserID: "u1", CourseID: "c1", Score: 5, TotalQuestions: 10})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := f.assessment.RecordQuizResult(dbc(), RecordQuizResultInput{UserID: "u1", CourseID: "c1", Score: 5, TotalQuestions: 10})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	history, err := f.assessment.ListQuizResults(dbc(), "u1", "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
}

func TestRecordQuizResultValidation(t *testing.T) {
	f := newFixture(t, gentest.Fixed(""))
	cases := map[string]RecordQuizResultInput{
		"missing user":   {CourseID: "c1", TotalQuestions: 1},
		"score too high": {UserID: "u1", CourseID: "c1", Score: 11, TotalQuestions: 10},
		"negative time":  {UserID: "u1", CourseID: "c1", TimeSpent: -1},
		"bad answers":    {UserID: "u1", CourseID: "c1", Answers: json.RawMessage(`{`)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.assessment.RecordQuizResult(dbc(), in)
			assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
		})
	}
}

func TestScoreAnswers(t *testing.T) {
	qs := []types.QuizItem{{Answer: "A"}, {Answer: "B"}, {Answer: "C"}}
	assert.Equal(t, 0, ScoreAnswers(qs, nil))
	assert.Equal(t, 2, ScoreAnswers(qs, map[string]string{"0": "A", "1": " B ", "2": "D", "9": "C"}))
}
