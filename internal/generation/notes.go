package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
)

// ChapterNotes expands chapter index of outline into an HTML fragment.
func (g *Generator) ChapterNotes(ctx context.Context, topic string, outline *courses.CourseOutline, index int) (string, error) {
	if outline == nil || index < 0 || index >= len(outline.Chapters) {
		return "", fmt.Errorf("chapter index %d out of range", index)
	}
	system, user := notesPrompts(topic, outline, index)
	raw, err := g.complete(ctx, TaskNotes, system, user)
	if err != nil {
		return "", err
	}
	html := CleanHTML(raw)
	if html == "" {
		return "", newMalformed(TaskNotes, "empty notes", raw)
	}
	return html, nil
}

var documentTags = strings.NewReplacer(
	"<!DOCTYPE html>", "", "<!doctype html>", "",
	"<html>", "", "</html>", "",
	"<head>", "", "</head>", "",
	"<body>", "", "</body>", "",
)

// CleanHTML strips code fences and document-level tags, leaving a fragment.
func CleanHTML(raw string) string {
	return strings.TrimSpace(documentTags.Replace(StripCodeFences(raw)))
}
