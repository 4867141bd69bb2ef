package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
)

// classifyGeneration maps upstream generation failures to 502.
func classifyGeneration(err error) *apierr.Error {
	switch {
	case errors.Is(err, generation.ErrMalformedOutput):
		return apierr.New(http.StatusBadGateway, "malformed_output", err)
	case errors.Is(err, generation.ErrGeneration):
		return apierr.New(http.StatusBadGateway, "generation_failed", err)
	}
	return nil
}

func respondErr(c *gin.Context, err error, fallbackCode string) {
	response.RespondAPIError(c, apierr.From(err, fallbackCode, classifyGeneration))
}

func badRequest(c *gin.Context, code string, err error) {
	response.RespondError(c, http.StatusBadRequest, code, err)
}
