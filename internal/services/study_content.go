package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/jobs/pipeline/study_content"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type StudyContentRequest struct {
	CourseID string
	Type     string
	Chapters []string
}

type StudyContentService interface {
	RequestStudyContent(dbc dbctx.Context, in StudyContentRequest) (*types.StudyTypeContent, error)
	FetchStudyContent(dbc dbctx.Context, courseID string, studyType string) ([]*types.StudyTypeContent, error)
	GetStudyContent(dbc dbctx.Context, id uuid.UUID) (*types.StudyTypeContent, error)
}

type studyContentService struct {
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	contentRepo repos.StudyContentRepo
	jobs        JobService
}

func NewStudyContentService(
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	contentRepo repos.StudyContentRepo,
	jobs JobService,
) StudyContentService {
	return &studyContentService{
		log:         baseLog.With("service", "StudyContentService"),
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		jobs:        jobs,
	}
}

// RequestStudyContent creates a fresh placeholder and dispatches its generation.
// Every request gets its own placeholder id.
func (s *studyContentService) RequestStudyContent(dbc dbctx.Context, in StudyContentRequest) (*types.StudyTypeContent, error) {
	courseID := strings.TrimSpace(in.CourseID)
	if courseID == "" {
		return nil, fmt.Errorf("course_id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	req := generation.StudyRequest{Type: in.Type, Chapters: in.Chapters}
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetByCourseID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, pkgerrors.ErrNotFound)
	}

	placeholder, err := s.contentRepo.CreatePlaceholder(dbc, courseID, req.Type, req.Chapters)
	if err != nil {
		return nil, fmt.Errorf("create placeholder: %w", err)
	}

	job, err := s.jobs.Dispatch(dbctx.Context{Ctx: dbc.Ctx}, study_content.JobType, "study_content", placeholder.ID.String(), map[string]any{
		"placeholder_id": placeholder.ID.String(),
		"type":           req.Type,
		"chapters":       req.Chapters,
	})
	if err != nil {
		s.log.Warn("Study content dispatch failed; placeholder stays empty", "placeholder_id", placeholder.ID, "error", err)
	} else {
		s.log.Debug("Study content job dispatched", "placeholder_id", placeholder.ID, "job_id", job.ID)
	}
	return placeholder, nil
}

// FetchStudyContent lists placeholders newest first; an empty studyType lists both kinds.
func (s *studyContentService) FetchStudyContent(dbc dbctx.Context, courseID string, studyType string) ([]*types.StudyTypeContent, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, fmt.Errorf("course_id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	studyType = strings.ToLower(strings.TrimSpace(studyType))
	if studyType != "" && studyType != types.StudyTypeFlashcard && studyType != types.StudyTypeQuiz {
		return nil, fmt.Errorf("study_type %q must be flashcard or quiz: %w", studyType, pkgerrors.ErrInvalidArgument)
	}
	rows, err := s.contentRepo.ListByCourseAndType(dbc, courseID, studyType)
	if err != nil {
		return nil, fmt.Errorf("list study content: %w", err)
	}
	return rows, nil
}

func (s *studyContentService) GetStudyContent(dbc dbctx.Context, id uuid.UUID) (*types.StudyTypeContent, error) {
	row, err := s.contentRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load study content: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("study content %s: %w", id, pkgerrors.ErrNotFound)
	}
	return row, nil
}
