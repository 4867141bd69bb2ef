package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/chapter_notes"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type OutlineSynthesizer interface {
	Synthesize(ctx context.Context, req generation.OutlineRequest) (*types.CourseOutline, error)
}

type CreateCourseInput struct {
	CourseID   string
	Topic      string
	CourseType string
	Difficulty string
	CreatedBy  string
	CreatedFor string
}

type CourseService interface {
	CreateCourse(dbc dbctx.Context, in CreateCourseInput) (*types.Course, error)
	GetCourse(dbc dbctx.Context, courseID string) (*types.Course, error)
	ListNotes(dbc dbctx.Context, courseID string) ([]*types.ChapterNote, error)
	RetryCourseNotes(dbc dbctx.Context, courseID string) (*types.Course, error)
}

type courseService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	noteRepo   repos.ChapterNoteRepo
	outlines   OutlineSynthesizer
	jobs       JobService
}

func NewCourseService(
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	noteRepo repos.ChapterNoteRepo,
	outlines OutlineSynthesizer,
	jobs JobService,
) CourseService {
	return &courseService{
		log:        baseLog.With("service", "CourseService"),
		courseRepo: courseRepo,
		noteRepo:   noteRepo,
		outlines:   outlines,
		jobs:       jobs,
	}
}

/*
CreateCourse synthesizes and validates the outline first; no course row exists
unless the outline is valid. The notes job is dispatched after the insert and a
dispatch failure does not fail the request.
*/
func (cs *courseService) CreateCourse(dbc dbctx.Context, in CreateCourseInput) (*types.Course, error) {
	courseID := strings.TrimSpace(in.CourseID)
	if courseID == "" {
		courseID = uuid.NewString()
	} else {
		existing, err := cs.courseRepo.GetByCourseID(dbc, courseID)
		if err != nil {
			return nil, fmt.Errorf("load course: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("course %s already exists: %w", courseID, pkgerrors.ErrConflict)
		}
	}

	req := generation.OutlineRequest{Topic: in.Topic, CourseType: in.CourseType, Difficulty: in.Difficulty}
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	outline, err := cs.outlines.Synthesize(dbc.Ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize outline: %w", err)
	}
	if warnings := outline.Warnings(); len(warnings) > 0 {
		cs.log.Debug("Outline accepted with warnings", "course_id", courseID, "warnings", warnings)
	}
	layout, err := json.Marshal(outline)
	if err != nil {
		return nil, fmt.Errorf("encode outline: %w", err)
	}

	course, err := cs.courseRepo.Create(dbc, &types.Course{
		CourseID:        courseID,
		Topic:           req.Topic,
		CourseType:      req.CourseType,
		DifficultyLevel: req.Difficulty,
		CourseLayout:    datatypes.JSON(layout),
		CreatedBy:       strings.TrimSpace(in.CreatedBy),
		CreatedFor:      strings.TrimSpace(in.CreatedFor),
	})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	cs.log.Info("Course created", "course_id", courseID, "chapters", len(outline.Chapters), "course_type", req.CourseType)

	cs.dispatchNotes(dbc, courseID)
	return course, nil
}

func (cs *courseService) dispatchNotes(dbc dbctx.Context, courseID string) {
	pending, err := cs.jobs.HasRunnable(dbctx.Context{Ctx: dbc.Ctx}, "course", courseID, chapter_notes.JobType)
	if err != nil {
		cs.log.Warn("Notes job lookup failed; dispatching anyway", "course_id", courseID, "error", err)
	} else if pending {
		cs.log.Info("Notes job already pending", "course_id", courseID)
		return
	}
	job, err := cs.jobs.Dispatch(dbctx.Context{Ctx: dbc.Ctx}, chapter_notes.JobType, "course", courseID, map[string]any{
		"course_id": courseID,
	})
	if err != nil {
		cs.log.Warn("Notes dispatch failed; course stays Generating", "course_id", courseID, "error", err)
		return
	}
	cs.log.Debug("Notes job dispatched", "course_id", courseID, "job_id", job.ID)
}

func (cs *courseService) GetCourse(dbc dbctx.Context, courseID string) (*types.Course, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, fmt.Errorf("course_id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	course, err := cs.courseRepo.GetByCourseID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, pkgerrors.ErrNotFound)
	}
	return course, nil
}

func (cs *courseService) ListNotes(dbc dbctx.Context, courseID string) ([]*types.ChapterNote, error) {
	course, err := cs.GetCourse(dbc, courseID)
	if err != nil {
		return nil, err
	}
	notes, err := cs.noteRepo.ListByCourse(dbc, course.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// RetryCourseNotes moves an Error course back to Generating and re-dispatches the notes job.
// Chapters that already have notes are skipped by the job.
func (cs *courseService) RetryCourseNotes(dbc dbctx.Context, courseID string) (*types.Course, error) {
	course, err := cs.GetCourse(dbc, courseID)
	if err != nil {
		return nil, err
	}
	ok, err := cs.courseRepo.TransitionStatus(dbc, course.CourseID, types.CourseStatusError, types.CourseStatusGenerating, "")
	if err != nil {
		return nil, fmt.Errorf("reset course status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("course %s is %s; only Error courses can be retried: %w", course.CourseID, course.Status, pkgerrors.ErrConflict)
	}
	cs.log.Info("Retrying course notes", "course_id", course.CourseID)
	cs.dispatchNotes(dbc, course.CourseID)
	return cs.GetCourse(dbc, course.CourseID)
}
