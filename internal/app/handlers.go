package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
)

type Handlers struct {
	Course       *httpH.CourseHandler
	StudyContent *httpH.StudyContentHandler
	Assessment   *httpH.AssessmentHandler
	Job          *httpH.JobHandler
	Health       *httpH.HealthHandler
}

func wireHandlers(db *gorm.DB, serviceset Services) Handlers {
	return Handlers{
		Course:       httpH.NewCourseHandler(serviceset.Courses),
		StudyContent: httpH.NewStudyContentHandler(serviceset.StudyContent),
		Assessment:   httpH.NewAssessmentHandler(serviceset.Assessment),
		Job:          httpH.NewJobHandler(serviceset.Jobs),
		Health:       httpH.NewHealthHandler(db),
	}
}
