package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/platform/dedupe"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins string

	// DedupeStore guards POST /api/courses; nil disables it. Study content
	// requests always allocate a new placeholder, so repeats are let through.
	DedupeStore dedupe.Store
	DedupeTTL   time.Duration

	CourseHandler       *httpH.CourseHandler
	StudyContentHandler *httpH.StudyContentHandler
	AssessmentHandler   *httpH.AssessmentHandler
	JobHandler          *httpH.JobHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	guard := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.DedupeStore == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{httpMW.Dedupe(cfg.DedupeStore, cfg.DedupeTTL, cfg.Log), h}
	}

	api := r.Group("/api")
	{
		// Courses
		if cfg.CourseHandler != nil {
			api.POST("/courses", guard(cfg.CourseHandler.CreateCourse)...)
			api.GET("/courses/:courseId", cfg.CourseHandler.GetCourse)
			api.GET("/courses/:courseId/notes", cfg.CourseHandler.ListNotes)
			api.POST("/courses/:courseId/retry", cfg.CourseHandler.RetryNotes)
		}

		// Study content
		if cfg.StudyContentHandler != nil {
			api.POST("/study-content", cfg.StudyContentHandler.Request)
			api.GET("/study-content", cfg.StudyContentHandler.List)
		}

		// Assessment
		if cfg.AssessmentHandler != nil {
			api.GET("/practice-tests", cfg.AssessmentHandler.FetchTest)
			api.POST("/practice-tests", cfg.AssessmentHandler.CreateTest)
			api.POST("/practice-tests/:id/submit", cfg.AssessmentHandler.SubmitTest)
			api.POST("/quiz-results", cfg.AssessmentHandler.RecordQuizResult)
			api.GET("/quiz-results", cfg.AssessmentHandler.ListQuizResults)
		}

		// Jobs
		if cfg.JobHandler != nil {
			api.GET("/jobs/:id", cfg.JobHandler.GetJob)
		}
	}

	return r
}
