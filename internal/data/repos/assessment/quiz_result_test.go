package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursegen-backend/internal/domain"
)

func TestQuizResultsAppendOnly(t *testing.T) {
	db := testutil.DB(t)
	repo := NewQuizResultRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(dbc, &types.QuizResult{
			UserID:         "u1",
			CourseID:       "c1",
			ChapterID:      1,
			Score:          i,
			TotalQuestions: 20,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(dbc, &types.QuizResult{UserID: "u1", CourseID: "c2", ChapterID: 1, TotalQuestions: 20})
	require.NoError(t, err)

	rows, err := repo.ListByUserAndCourse(dbc, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[0].Score)
	assert.Equal(t, 0, rows[2].Score)

	all, err := repo.ListByUserAndCourse(dbc, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestQuizResultKeepsChapterZero(t *testing.T) {
	db := testutil.DB(t)
	repo := NewQuizResultRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	_, err := repo.Create(dbc, &types.QuizResult{UserID: "u1", CourseID: "c1", ChapterID: 0, Score: 1, TotalQuestions: 20})
	require.NoError(t, err)

	rows, err := repo.ListByUserAndCourse(dbc, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].ChapterID)
}
