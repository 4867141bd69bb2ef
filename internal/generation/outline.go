package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

type OutlineRequest struct {
	Topic      string
	CourseType string
	Difficulty string
}

func (r *OutlineRequest) Normalize() error {
	r.Topic = strings.TrimSpace(r.Topic)
	r.CourseType = strings.ToLower(strings.TrimSpace(r.CourseType))
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	if r.Topic == "" {
		return fmt.Errorf("topic is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if r.CourseType == "" {
		r.CourseType = courses.TypeCustom
	}
	if !courses.ValidCourseType(r.CourseType) {
		return fmt.Errorf("course_type %q must be one of %s: %w", r.CourseType, strings.Join(courses.CourseTypes, ", "), pkgerrors.ErrInvalidArgument)
	}
	return nil
}

// Synthesize returns an outline with at least 8 chapters of at least 5 topics,
// or an error matching ErrGeneration or ErrMalformedOutput.
func (g *Generator) Synthesize(ctx context.Context, req OutlineRequest) (*courses.CourseOutline, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	system, user := outlinePrompts(req)
	raw, err := g.complete(ctx, TaskOutline, system, user)
	if err != nil {
		return nil, err
	}
	outline, err := ParseOutline(raw)
	if err != nil {
		g.log.Warn("Outline rejected", "topic", req.Topic, "error", err, "snippet", Snippet(raw))
		return nil, err
	}
	if warnings := outline.Warnings(); len(warnings) > 0 {
		g.log.Warn("Outline accepted with style issues", "topic", req.Topic, "issues", warnings)
	}
	if outline.Difficulty == "" {
		outline.Difficulty = req.Difficulty
	}
	return outline, nil
}

// ParseOutline applies output recovery and the structural contract to raw text.
func ParseOutline(raw string) (*courses.CourseOutline, error) {
	var outline courses.CourseOutline
	if err := DecodeObject(raw, &outline); err != nil {
		return nil, newMalformed(TaskOutline, err.Error(), raw)
	}
	if err := outline.Validate(); err != nil {
		return nil, newMalformed(TaskOutline, err.Error(), raw)
	}
	return &outline, nil
}
