package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
)

func TestChapterNoteInsertIsWriteOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := NewChapterNoteRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	inserted, err := repo.Insert(dbc, "c1", 0, "<h2>first</h2>")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(dbc, "c1", 0, "<h2>second</h2>")
	require.NoError(t, err)
	assert.False(t, inserted)

	note, err := repo.Get(dbc, "c1", 0)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "<h2>first</h2>", note.Notes)
}

func TestChapterNoteExistingAndOrdering(t *testing.T) {
	db := testutil.DB(t)
	repo := NewChapterNoteRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	for _, idx := range []int{2, 0, 1} {
		_, err := repo.Insert(dbc, "c1", idx, "n")
		require.NoError(t, err)
	}
	_, err := repo.Insert(dbc, "other", 5, "n")
	require.NoError(t, err)

	existing, err := repo.ExistingChapterIDs(dbc, "c1")
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, existing)

	notes, err := repo.ListByCourse(dbc, "c1")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	for i, n := range notes {
		assert.Equal(t, i, n.ChapterID)
	}

	missing, err := repo.Get(dbc, "c1", 9)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
