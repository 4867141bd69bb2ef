package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type AssessmentHandler struct {
	assessment services.AssessmentService
}

func NewAssessmentHandler(assessment services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessment: assessment}
}

// GET /api/practice-tests?course_id=&chapter_id=&user_id=
func (h *AssessmentHandler) FetchTest(c *gin.Context) {
	chapterID, err := strconv.Atoi(strings.TrimSpace(c.Query("chapter_id")))
	if err != nil {
		badRequest(c, "invalid_chapter_id", errors.New("chapter_id must be an integer"))
		return
	}
	test, err := h.assessment.FetchTest(dbcFrom(c), c.Query("course_id"), chapterID, callerID(c, c.Query("user_id")))
	if err != nil {
		respondErr(c, err, "fetch_test_failed")
		return
	}
	response.RespondOK(c, gin.H{"test": test})
}

type createTestRequest struct {
	UserID         string `json:"user_id"`
	CourseID       string `json:"course_id" binding:"required"`
	ChapterID      int    `json:"chapter_id"`
	StudyContentID string `json:"study_content_id" binding:"required"`
}

// POST /api/practice-tests
func (h *AssessmentHandler) CreateTest(c *gin.Context) {
	var req createTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	contentID, err := uuid.Parse(req.StudyContentID)
	if err != nil {
		badRequest(c, "invalid_study_content_id", err)
		return
	}
	test, err := h.assessment.CreateTest(dbcFrom(c), services.CreateTestInput{
		UserID:         callerID(c, req.UserID),
		CourseID:       req.CourseID,
		ChapterID:      req.ChapterID,
		StudyContentID: contentID,
	})
	if err != nil {
		respondErr(c, err, "create_test_failed")
		return
	}
	response.RespondCreated(c, gin.H{"test": test})
}

type submitTestRequest struct {
	Answers   map[string]string `json:"answers"`
	TimeSpent int               `json:"time_spent"`
}

// POST /api/practice-tests/:id/submit
func (h *AssessmentHandler) SubmitTest(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid_test_id", err)
		return
	}
	var req submitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	test, err := h.assessment.SubmitTest(dbcFrom(c), testID, req.Answers, req.TimeSpent)
	if err != nil {
		respondErr(c, err, "submit_test_failed")
		return
	}
	response.RespondOK(c, gin.H{"test": test})
}

type quizResultRequest struct {
	UserID         string          `json:"user_id"`
	CourseID       string          `json:"course_id" binding:"required"`
	ChapterID      *int            `json:"chapter_id"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	TimeSpent      int             `json:"time_spent"`
	Answers        json.RawMessage `json:"answers"`
}

// POST /api/quiz-results
func (h *AssessmentHandler) RecordQuizResult(c *gin.Context) {
	var req quizResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	result, err := h.assessment.RecordQuizResult(dbcFrom(c), services.RecordQuizResultInput{
		UserID:         callerID(c, req.UserID),
		CourseID:       req.CourseID,
		ChapterID:      req.ChapterID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		TimeSpent:      req.TimeSpent,
		Answers:        req.Answers,
	})
	if err != nil {
		respondErr(c, err, "record_quiz_result_failed")
		return
	}
	response.RespondCreated(c, gin.H{"id": result.ID})
}

// GET /api/quiz-results?user_id=&course_id=
func (h *AssessmentHandler) ListQuizResults(c *gin.Context) {
	results, err := h.assessment.ListQuizResults(dbcFrom(c), callerID(c, c.Query("user_id")), c.Query("course_id"))
	if err != nil {
		respondErr(c, err, "list_quiz_results_failed")
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}
