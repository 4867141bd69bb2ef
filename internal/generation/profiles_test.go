package generation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfilesOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outline:\n  model: gpt-4o\n  max_tokens: 6000\nnotes:\n  temperature: 0.2\n  json: true\n"), 0o600))

	ps, err := LoadProfiles(path)
	require.NoError(t, err)

	outline := ps.For(TaskOutline).Options()
	assert.Equal(t, "gpt-4o", outline.Model)
	assert.Equal(t, 6000, outline.MaxTokens)
	require.NotNil(t, outline.Temperature)
	assert.Equal(t, 0.7, *outline.Temperature)
	assert.True(t, outline.JSON)

	notes := ps.For(TaskNotes).Options()
	assert.Equal(t, 0.2, *notes.Temperature)
	assert.True(t, notes.JSON)
	assert.Equal(t, 8192, notes.MaxTokens)
}

func TestLoadProfilesRejectsUnknownTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("essay:\n  max_tokens: 10\n"), 0o600))
	_, err := LoadProfiles(path)
	assert.Error(t, err)
}

func TestLoadProfilesEmptyPath(t *testing.T) {
	ps, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfiles(), ps)
}
