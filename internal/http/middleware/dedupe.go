package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/dedupe"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const maxDedupeBody = 1 << 20

/*
Dedupe rejects a repeat of the same (caller, route, body) within ttl with 409.
The reservation is released when the first request fails so the caller can retry.
Store errors let the request through.
*/
func Dedupe(store dedupe.Store, ttl time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || ttl <= 0 {
			c.Next()
			return
		}
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDedupeBody+1))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
			c.Abort()
			return
		}
		if len(body) > maxDedupeBody {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "request_too_large", errors.New("request body exceeds 1 MiB"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		caller := ""
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			caller = td.UserID
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := dedupe.Key(caller, c.Request.Method+" "+route, body)

		ok, err := store.Reserve(c.Request.Context(), key, ttl)
		if err != nil {
			log.Warn("Dedupe reserve failed; allowing request", "route", route, "error", err)
			c.Next()
			return
		}
		if !ok {
			response.RespondError(c, http.StatusConflict, "duplicate_request", errors.New("an identical request is already being processed"))
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(c.Request.Context(), key); err != nil {
				log.Warn("Dedupe release failed", "route", route, "error", err)
			}
		}
	}
}
