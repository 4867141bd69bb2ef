package generation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	"github.com/yungbote/coursegen-backend/internal/generation/gentest"
)

func TestCleanHTML(t *testing.T) {
	raw := "```html\n<html><body><h2>Intro</h2><p>Hi</p></body></html>\n```"
	assert.Equal(t, "<h2>Intro</h2><p>Hi</p>", CleanHTML(raw))
}

func TestChapterNotes(t *testing.T) {
	var outline courses.CourseOutline
	require.NoError(t, json.Unmarshal([]byte(gentest.OutlineJSON("Trees", 8, 5)), &outline))

	text := gentest.Fixed("```html\n<h2>Chapter 3</h2>\n```")
	g := newTestGenerator(t, text)

	html, err := g.ChapterNotes(context.Background(), "Trees", &outline, 2)
	require.NoError(t, err)
	assert.Equal(t, "<h2>Chapter 3</h2>", html)
	user := text.Calls()[0].User
	assert.Contains(t, user, "Chapter 3 of 8: Chapter 3")
	assert.Contains(t, user, "- Topic 3.1: details")

	_, err = g.ChapterNotes(context.Background(), "Trees", &outline, 8)
	assert.Error(t, err)
}

func TestChapterNotesRejectsEmpty(t *testing.T) {
	var outline courses.CourseOutline
	require.NoError(t, json.Unmarshal([]byte(gentest.OutlineJSON("Trees", 8, 5)), &outline))
	g := newTestGenerator(t, gentest.Fixed("```\n```"))
	_, err := g.ChapterNotes(context.Background(), "Trees", &outline, 0)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}
