package courses

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursegen-backend/internal/domain"
)

func TestStudyContentPlaceholdersAreDistinct(t *testing.T) {
	db := testutil.DB(t)
	repo := NewStudyContentRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	a, err := repo.CreatePlaceholder(dbc, "c1", types.StudyTypeQuiz, []string{"Intro"})
	require.NoError(t, err)
	b, err := repo.CreatePlaceholder(dbc, "c1", types.StudyTypeQuiz, []string{"Intro"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, types.StudyStatusGenerating, a.Status)
	assert.JSONEq(t, `[]`, string(a.Content))

	rows, err := repo.ListByCourseAndType(dbc, "c1", types.StudyTypeQuiz)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStudyContentFillOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := NewStudyContentRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	ph, err := repo.CreatePlaceholder(dbc, "c1", types.StudyTypeFlashcard, nil)
	require.NoError(t, err)

	ok, err := repo.Fill(dbc, ph.ID, datatypes.JSON([]byte(`[{"front":"a","back":"b"}]`)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Fill(dbc, ph.ID, datatypes.JSON([]byte(`[{"front":"x","back":"y"}]`)))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.MarkFailed(dbc, ph.ID, "late failure"))

	got, err := repo.GetByID(dbc, ph.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StudyStatusReady, got.Status)
	assert.JSONEq(t, `[{"front":"a","back":"b"}]`, string(got.Content))

	ok, err = repo.Fill(dbc, uuid.New(), datatypes.JSON([]byte(`[]`)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStudyContentMarkFailedLeavesContentEmpty(t *testing.T) {
	db := testutil.DB(t)
	repo := NewStudyContentRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	ph, err := repo.CreatePlaceholder(dbc, "c1", types.StudyTypeQuiz, nil)
	require.NoError(t, err)
	require.NoError(t, repo.MarkFailed(dbc, ph.ID, "only 15 items"))

	got, err := repo.GetByID(dbc, ph.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StudyStatusError, got.Status)
	assert.JSONEq(t, `[]`, string(got.Content))
	assert.Equal(t, "only 15 items", got.Error)
}
