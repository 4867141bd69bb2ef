package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type CourseHandler struct {
	courses services.CourseService
}

func NewCourseHandler(courses services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

type createCourseRequest struct {
	CourseID   string `json:"course_id"`
	Topic      string `json:"topic" binding:"required"`
	CourseType string `json:"course_type"`
	Difficulty string `json:"difficulty"`
	CreatedBy  string `json:"created_by"`
	CreatedFor string `json:"created_for"`
}

// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	createdBy := callerID(c, req.CreatedBy)
	createdFor := req.CreatedFor
	if createdFor == "" {
		createdFor = createdBy
	}
	course, err := h.courses.CreateCourse(dbcFrom(c), services.CreateCourseInput{
		CourseID:   req.CourseID,
		Topic:      req.Topic,
		CourseType: req.CourseType,
		Difficulty: req.Difficulty,
		CreatedBy:  createdBy,
		CreatedFor: createdFor,
	})
	if err != nil {
		respondErr(c, err, "create_course_failed")
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// GET /api/courses/:courseId
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courses.GetCourse(dbcFrom(c), c.Param("courseId"))
	if err != nil {
		respondErr(c, err, "get_course_failed")
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /api/courses/:courseId/notes
func (h *CourseHandler) ListNotes(c *gin.Context) {
	notes, err := h.courses.ListNotes(dbcFrom(c), c.Param("courseId"))
	if err != nil {
		respondErr(c, err, "list_notes_failed")
		return
	}
	response.RespondOK(c, gin.H{"notes": notes})
}

// POST /api/courses/:courseId/retry
func (h *CourseHandler) RetryNotes(c *gin.Context) {
	course, err := h.courses.RetryCourseNotes(dbcFrom(c), c.Param("courseId"))
	if err != nil {
		respondErr(c, err, "retry_course_failed")
		return
	}
	response.RespondAccepted(c, gin.H{"course": course})
}
