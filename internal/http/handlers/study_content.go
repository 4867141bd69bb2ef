package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type StudyContentHandler struct {
	study services.StudyContentService
}

func NewStudyContentHandler(study services.StudyContentService) *StudyContentHandler {
	return &StudyContentHandler{study: study}
}

type studyContentRequest struct {
	CourseID string   `json:"course_id" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Chapters []string `json:"chapters"`
}

// POST /api/study-content
func (h *StudyContentHandler) Request(c *gin.Context) {
	var req studyContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	placeholder, err := h.study.RequestStudyContent(dbcFrom(c), services.StudyContentRequest{
		CourseID: req.CourseID,
		Type:     req.Type,
		Chapters: req.Chapters,
	})
	if err != nil {
		respondErr(c, err, "request_study_content_failed")
		return
	}
	response.RespondAccepted(c, gin.H{"placeholder_id": placeholder.ID})
}

// GET /api/study-content?course_id=&study_type=
func (h *StudyContentHandler) List(c *gin.Context) {
	items, err := h.study.FetchStudyContent(dbcFrom(c), c.Query("course_id"), c.Query("study_type"))
	if err != nil {
		respondErr(c, err, "fetch_study_content_failed")
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}
