package study_content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
)

const maxErrorRunes = 500

func (p *Pipeline) Type() string { return JobType }

func (p *Pipeline) Run(jobContext *runtime.Context) error {
	if jobContext == nil || jobContext.Job == nil {
		return nil
	}
	ctx := jobContext.Ctx
	dbc := dbctx.Context{Ctx: ctx}

	placeholderID, ok := jobContext.PayloadUUID("placeholder_id")
	if !ok {
		jobContext.Fail("validate", runtime.Permanent(errors.New("missing or invalid placeholder_id")))
		return nil
	}
	placeholder, err := p.contentRepo.GetByID(dbc, placeholderID)
	if err != nil {
		jobContext.Fail("load", fmt.Errorf("load placeholder: %w", err))
		return nil
	}
	if placeholder == nil {
		jobContext.Fail("load", runtime.Permanent(fmt.Errorf("placeholder %s not found", placeholderID)))
		return nil
	}
	if placeholder.Status != types.StudyStatusGenerating {
		jobContext.Succeed("skipped", map[string]any{
			"placeholder_id": placeholderID.String(),
			"status":         placeholder.Status,
		})
		return nil
	}

	course, err := p.courseRepo.GetByCourseID(dbc, placeholder.CourseID)
	if err != nil {
		jobContext.Fail("load", fmt.Errorf("load course: %w", err))
		return nil
	}
	if course == nil {
		p.failPlaceholder(jobContext, placeholderID, fmt.Errorf("course %s not found", placeholder.CourseID))
		return nil
	}

	studyType := jobContext.PayloadString("type")
	if studyType == "" {
		studyType = placeholder.Type
	}
	chapters := jobContext.PayloadStrings("chapters")
	if len(chapters) == 0 && len(placeholder.Chapters) > 0 {
		if err := json.Unmarshal(placeholder.Chapters, &chapters); err != nil {
			p.failPlaceholder(jobContext, placeholderID, fmt.Errorf("decode placeholder chapters: %w", err))
			return nil
		}
	}

	jobContext.Progress("generate", 10, fmt.Sprintf("Generating %d %s items", types.StudyItemCount, studyType))
	set, err := p.gen.StudyContent(ctx, generation.StudyRequest{
		Type:     studyType,
		Topic:    course.Topic,
		Chapters: chapters,
	})
	if err != nil {
		p.failPlaceholder(jobContext, placeholderID, err)
		return nil
	}

	content, err := json.Marshal(set)
	if err != nil {
		p.failPlaceholder(jobContext, placeholderID, fmt.Errorf("encode content: %w", err))
		return nil
	}
	filled, err := p.contentRepo.Fill(dbc, placeholderID, datatypes.JSON(content))
	if err != nil {
		jobContext.Fail("store", fmt.Errorf("fill placeholder: %w", err))
		return nil
	}
	p.log.Info("Study content ready",
		"placeholder_id", placeholderID,
		"course_id", placeholder.CourseID,
		"type", studyType,
		"items", set.Len(),
		"filled", filled,
	)
	jobContext.Succeed("done", map[string]any{
		"placeholder_id": placeholderID.String(),
		"items":          set.Len(),
		"filled":         filled,
	})
	return nil
}

// Exhausted marks the placeholder failed after the last retryable attempt.
func (p *Pipeline) Exhausted(jobContext *runtime.Context, cause error) {
	if jobContext == nil || cause == nil {
		return
	}
	id, ok := jobContext.PayloadUUID("placeholder_id")
	if !ok {
		return
	}
	dbc := dbctx.Context{Ctx: context.WithoutCancel(jobContext.Ctx)}
	if err := p.contentRepo.MarkFailed(dbc, id, truncate(cause.Error(), maxErrorRunes)); err != nil {
		p.log.Warn("Mark exhausted placeholder failed", "placeholder_id", id, "error", err)
	}
}

// failPlaceholder leaves the content empty and the placeholder in error; the job is not retried.
func (p *Pipeline) failPlaceholder(jobContext *runtime.Context, id uuid.UUID, cause error) {
	p.log.Warn("Study content generation failed", "placeholder_id", id, "error", cause)
	msg := truncate(cause.Error(), maxErrorRunes)
	if err := p.contentRepo.MarkFailed(dbctx.Context{Ctx: jobContext.Ctx}, id, msg); err != nil {
		p.log.Warn("Mark placeholder failed", "placeholder_id", id, "error", err)
	}
	jobContext.Fail("generate", runtime.Permanent(cause))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
