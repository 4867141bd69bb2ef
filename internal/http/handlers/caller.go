package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
)

func dbcFrom(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// callerID prefers an explicit value, then the X-User-Id header captured on the request context.
func callerID(c *gin.Context, explicit string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		return td.UserID
	}
	return ""
}
