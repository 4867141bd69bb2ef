package app

import (
	"github.com/yungbote/coursegen-backend/internal/http"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, clients Clients, handlerset Handlers) http.RouterConfig {
	return http.RouterConfig{
		Log:                 log,
		ServiceName:         cfg.ServiceName,
		CORSOrigins:         cfg.CORSOrigins,
		DedupeStore:         clients.Dedupe,
		DedupeTTL:           cfg.DedupeTTL,
		CourseHandler:       handlerset.Course,
		StudyContentHandler: handlerset.StudyContent,
		AssessmentHandler:   handlerset.Assessment,
		JobHandler:          handlerset.Job,
		HealthHandler:       handlerset.Health,
	}
}
