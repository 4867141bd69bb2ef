package chapter_notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/jobs/runtime"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
)

// Course.status_message keeps this many runes of the failure cause.
const maxCauseRunes = 300

type runContext struct {
	jobCtx       *runtime.Context
	ctx          context.Context
	courseID     string
	course       *types.Course
	outline      *types.CourseOutline
	lastProgress int
}

func (p *Pipeline) Type() string { return JobType }

func (p *Pipeline) Run(jobContext *runtime.Context) error {
	if jobContext == nil || jobContext.Job == nil {
		return nil
	}
	rc := &runContext{
		jobCtx:   jobContext,
		ctx:      jobContext.Ctx,
		courseID: jobContext.PayloadString("course_id"),
	}

	if err := p.load(rc); err != nil {
		p.fail(rc, "load", err)
		return nil
	}
	if rc.course.Status != types.CourseStatusGenerating {
		// Redelivered after the course already settled.
		jobContext.Succeed("skipped", map[string]any{
			"course_id": rc.courseID,
			"status":    rc.course.Status,
		})
		return nil
	}

	existing, err := p.noteRepo.ExistingChapterIDs(dbctx.Context{Ctx: rc.ctx}, rc.courseID)
	if err != nil {
		p.fail(rc, "load", fmt.Errorf("load existing notes: %w", err))
		return nil
	}

	total := len(rc.outline.Chapters)
	written, skipped := 0, 0
	for index := 0; index < total; index++ {
		if existing[index] {
			skipped++
			continue
		}
		p.progress(rc, "notes", 5+(90*index)/total, fmt.Sprintf("Writing chapter %d of %d", index+1, total))

		html, err := p.gen.ChapterNotes(rc.ctx, rc.course.Topic, rc.outline, index)
		if err != nil {
			p.failChapter(rc, index, err)
			return nil
		}
		if _, err := p.noteRepo.Insert(dbctx.Context{Ctx: rc.ctx}, rc.courseID, index, html); err != nil {
			// Storage errors are retried with the run; stored chapters are skipped next time.
			p.fail(rc, "notes", fmt.Errorf("chapter %d: store notes: %w", index, err))
			return nil
		}
		written++
	}

	moved, err := p.courseRepo.TransitionStatus(dbctx.Context{Ctx: rc.ctx}, rc.courseID, types.CourseStatusGenerating, types.CourseStatusReady, "")
	if err != nil {
		p.fail(rc, "finalize", fmt.Errorf("set course ready: %w", err))
		return nil
	}
	if !moved {
		// Another run settled the course while this one was writing.
		p.log.Info("Course already settled", "course_id", rc.courseID, "written", written)
		jobContext.Succeed("skipped", map[string]any{
			"course_id": rc.courseID,
			"written":   written,
		})
		return nil
	}
	p.log.Info("Course notes ready",
		"course_id", rc.courseID,
		"chapters", total,
		"written", written,
		"skipped", skipped,
	)
	jobContext.Succeed("done", map[string]any{
		"course_id": rc.courseID,
		"chapters":  total,
		"written":   written,
		"skipped":   skipped,
	})
	return nil
}

func (p *Pipeline) load(rc *runContext) error {
	if rc.courseID == "" {
		return runtime.Permanent(errors.New("missing course_id"))
	}
	course, err := p.courseRepo.GetByCourseID(dbctx.Context{Ctx: rc.ctx}, rc.courseID)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return runtime.Permanent(fmt.Errorf("course %s not found", rc.courseID))
	}
	rc.course = course
	var outline types.CourseOutline
	if err := json.Unmarshal(course.CourseLayout, &outline); err != nil {
		return p.markError(rc, fmt.Errorf("decode course layout: %w", err))
	}
	if err := outline.Validate(); err != nil {
		return p.markError(rc, fmt.Errorf("course layout: %w", err))
	}
	rc.outline = &outline
	return nil
}

// failChapter settles the course as Error. Generation failures are not retried by the queue.
func (p *Pipeline) failChapter(rc *runContext, index int, cause error) {
	p.log.Warn("Chapter notes generation failed",
		"course_id", rc.courseID,
		"chapter", index,
		"error", cause,
	)
	err := fmt.Errorf("chapter %d: %w", index, cause)
	if markErr := p.markError(rc, err); markErr != nil {
		err = markErr
	}
	p.fail(rc, "notes", err)
}

// markError moves a Generating course to Error. A course that already settled keeps its status.
func (p *Pipeline) markError(rc *runContext, cause error) error {
	msg := truncate(cause.Error(), maxCauseRunes)
	moved, err := p.courseRepo.TransitionStatus(dbctx.Context{Ctx: rc.ctx}, rc.courseID, types.CourseStatusGenerating, types.CourseStatusError, msg)
	if err != nil {
		return fmt.Errorf("%v (set course error: %w)", cause, err)
	}
	if !moved {
		p.log.Info("Course already settled, keeping status", "course_id", rc.courseID, "error", cause)
	}
	return runtime.Permanent(cause)
}

// Exhausted settles the course as Error after the last retryable attempt failed.
func (p *Pipeline) Exhausted(jobContext *runtime.Context, cause error) {
	if jobContext == nil || cause == nil {
		return
	}
	rc := &runContext{
		jobCtx:   jobContext,
		ctx:      context.WithoutCancel(jobContext.Ctx),
		courseID: jobContext.PayloadString("course_id"),
	}
	if rc.courseID == "" {
		return
	}
	if err := p.markError(rc, cause); !runtime.IsPermanent(err) {
		p.log.Warn("Could not settle exhausted course", "course_id", rc.courseID, "error", err)
	}
}

func (p *Pipeline) fail(rc *runContext, stage string, err error) {
	if errors.Is(err, generation.ErrGeneration) || errors.Is(err, generation.ErrMalformedOutput) {
		err = runtime.Permanent(err)
	}
	p.log.Warn("Chapter notes job failed", "course_id", rc.courseID, "stage", stage, "error", err)
	rc.jobCtx.Fail(stage, err)
}

func (p *Pipeline) progress(rc *runContext, stage string, pct int, msg string) {
	if pct < rc.lastProgress {
		pct = rc.lastProgress
	}
	rc.lastProgress = pct
	rc.jobCtx.Progress(stage, pct, msg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
