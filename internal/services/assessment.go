package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/domain/assessment"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/pkg/pointers"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CreateTestInput struct {
	UserID         string
	CourseID       string
	ChapterID      int
	StudyContentID uuid.UUID
}

type RecordQuizResultInput struct {
	UserID         string
	CourseID       string
	ChapterID      *int
	Score          int
	TotalQuestions int
	TimeSpent      int
	Answers        json.RawMessage
}

type AssessmentService interface {
	FetchTest(dbc dbctx.Context, courseID string, chapterID int, userID string) (*types.PracticeTest, error)
	CreateTest(dbc dbctx.Context, in CreateTestInput) (*types.PracticeTest, error)
	SubmitTest(dbc dbctx.Context, testID uuid.UUID, answers map[string]string, timeSpent int) (*types.PracticeTest, error)
	RecordQuizResult(dbc dbctx.Context, in RecordQuizResultInput) (*types.QuizResult, error)
	ListQuizResults(dbc dbctx.Context, userID string, courseID string) ([]*types.QuizResult, error)
}

type assessmentService struct {
	log         *logger.Logger
	testRepo    repos.PracticeTestRepo
	resultRepo  repos.QuizResultRepo
	contentRepo repos.StudyContentRepo
}

func NewAssessmentService(
	baseLog *logger.Logger,
	testRepo repos.PracticeTestRepo,
	resultRepo repos.QuizResultRepo,
	contentRepo repos.StudyContentRepo,
) AssessmentService {
	return &assessmentService{
		log:         baseLog.With("service", "AssessmentService"),
		testRepo:    testRepo,
		resultRepo:  resultRepo,
		contentRepo: contentRepo,
	}
}

// FetchTest returns the newest stored test for the chapter; it never generates one.
func (s *assessmentService) FetchTest(dbc dbctx.Context, courseID string, chapterID int, userID string) (*types.PracticeTest, error) {
	courseID, userID = strings.TrimSpace(courseID), strings.TrimSpace(userID)
	if courseID == "" || userID == "" {
		return nil, fmt.Errorf("course_id and user_id are required: %w", pkgerrors.ErrInvalidArgument)
	}
	test, err := s.testRepo.GetLatest(dbc, courseID, chapterID, userID)
	if err != nil {
		return nil, fmt.Errorf("load practice test: %w", err)
	}
	if test == nil {
		return nil, fmt.Errorf("practice test for course %s chapter %d: %w", courseID, chapterID, pkgerrors.ErrNotFound)
	}
	return test, nil
}

// CreateTest stores a pending test whose questions come from a ready quiz placeholder.
func (s *assessmentService) CreateTest(dbc dbctx.Context, in CreateTestInput) (*types.PracticeTest, error) {
	in.UserID, in.CourseID = strings.TrimSpace(in.UserID), strings.TrimSpace(in.CourseID)
	if in.UserID == "" || in.CourseID == "" {
		return nil, fmt.Errorf("user_id and course_id are required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.ChapterID < 0 {
		return nil, fmt.Errorf("chapter_id must not be negative: %w", pkgerrors.ErrInvalidArgument)
	}
	content, err := s.contentRepo.GetByID(dbc, in.StudyContentID)
	if err != nil {
		return nil, fmt.Errorf("load study content: %w", err)
	}
	if content == nil || content.CourseID != in.CourseID {
		return nil, fmt.Errorf("study content %s: %w", in.StudyContentID, pkgerrors.ErrNotFound)
	}
	if content.Type != types.StudyTypeQuiz || content.Status != types.StudyStatusReady {
		return nil, fmt.Errorf("study content %s is a %s set in status %s; a ready quiz is required: %w",
			content.ID, content.Type, content.Status, pkgerrors.ErrInvalidArgument)
	}
	questions, err := decodeQuestions(content.Content)
	if err != nil {
		return nil, err
	}

	test, err := s.testRepo.Create(dbc, &types.PracticeTest{
		UserID:         in.UserID,
		CourseID:       in.CourseID,
		ChapterID:      in.ChapterID,
		Questions:      content.Content,
		TotalQuestions: len(questions),
	})
	if err != nil {
		return nil, fmt.Errorf("create practice test: %w", err)
	}
	s.log.Info("Practice test created", "test_id", test.ID, "course_id", in.CourseID, "chapter_id", in.ChapterID, "user_id", in.UserID)
	return test, nil
}

/*
SubmitTest scores answers (keyed by question index) against the stored questions.
Resubmitting overwrites the previous submission; the test stays completed.
*/
func (s *assessmentService) SubmitTest(dbc dbctx.Context, testID uuid.UUID, answers map[string]string, timeSpent int) (*types.PracticeTest, error) {
	if timeSpent < 0 {
		return nil, fmt.Errorf("time_spent must not be negative: %w", pkgerrors.ErrInvalidArgument)
	}
	test, err := s.testRepo.GetByID(dbc, testID)
	if err != nil {
		return nil, fmt.Errorf("load practice test: %w", err)
	}
	if test == nil {
		return nil, fmt.Errorf("practice test %s: %w", testID, pkgerrors.ErrNotFound)
	}
	questions, err := decodeQuestions(test.Questions)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	sub := repos.PracticeTestSubmission{
		Answers:        datatypes.JSON(raw),
		Score:          ScoreAnswers(questions, answers),
		TotalQuestions: len(questions),
		TimeSpent:      timeSpent,
		CompletedAt:    time.Now().UTC(),
	}
	ok, err := s.testRepo.ApplySubmission(dbc, testID, sub)
	if err != nil {
		return nil, fmt.Errorf("submit practice test: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("practice test %s: %w", testID, pkgerrors.ErrNotFound)
	}
	if test.Status == types.TestStatusCompleted {
		s.log.Debug("Practice test resubmitted; previous submission overwritten", "test_id", testID)
	}
	return s.testRepo.GetByID(dbc, testID)
}

// ScoreAnswers counts answers["i"] that equal question i's answer.
func ScoreAnswers(questions []types.QuizItem, answers map[string]string) int {
	score := 0
	for i, q := range questions {
		if a, ok := answers[strconv.Itoa(i)]; ok && strings.TrimSpace(a) == q.Answer {
			score++
		}
	}
	return score
}

func decodeQuestions(raw datatypes.JSON) ([]types.QuizItem, error) {
	var questions []types.QuizItem
	if len(raw) == 0 {
		return questions, nil
	}
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

// RecordQuizResult appends a new row per call. A nil ChapterID records chapter 1.
func (s *assessmentService) RecordQuizResult(dbc dbctx.Context, in RecordQuizResultInput) (*types.QuizResult, error) {
	in.UserID, in.CourseID = strings.TrimSpace(in.UserID), strings.TrimSpace(in.CourseID)
	if in.UserID == "" || in.CourseID == "" {
		return nil, fmt.Errorf("user_id and course_id are required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.TotalQuestions < 0 || in.Score < 0 || in.Score > in.TotalQuestions {
		return nil, fmt.Errorf("score %d out of range for %d questions: %w", in.Score, in.TotalQuestions, pkgerrors.ErrInvalidArgument)
	}
	if in.TimeSpent < 0 {
		return nil, fmt.Errorf("time_spent must not be negative: %w", pkgerrors.ErrInvalidArgument)
	}
	answers := datatypes.JSON(in.Answers)
	if len(answers) > 0 && !json.Valid(answers) {
		return nil, fmt.Errorf("answers must be valid JSON: %w", pkgerrors.ErrInvalidArgument)
	}

	result, err := s.resultRepo.Create(dbc, &types.QuizResult{
		UserID:         in.UserID,
		CourseID:       in.CourseID,
		ChapterID:      pointers.IntOr(in.ChapterID, assessment.DefaultChapterID),
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		TimeSpent:      in.TimeSpent,
		Answers:        answers,
	})
	if err != nil {
		return nil, fmt.Errorf("record quiz result: %w", err)
	}
	return result, nil
}

// ListQuizResults returns a user's results newest first; an empty courseID spans all courses.
func (s *assessmentService) ListQuizResults(dbc dbctx.Context, userID string, courseID string) ([]*types.QuizResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", pkgerrors.ErrInvalidArgument)
	}
	rows, err := s.resultRepo.ListByUserAndCourse(dbc, userID, strings.TrimSpace(courseID))
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	return rows, nil
}
