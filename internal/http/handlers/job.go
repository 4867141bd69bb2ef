package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid_job_id", err)
		return
	}
	job, err := h.jobs.GetByID(dbcFrom(c), jobID)
	if err != nil {
		respondErr(c, err, "get_job_failed")
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
