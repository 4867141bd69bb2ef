package study_content

import (
	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const JobType = "study_content"

type Pipeline struct {
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	contentRepo repos.StudyContentRepo
	gen         *generation.Generator
}

func New(baseLog *logger.Logger, courseRepo repos.CourseRepo, contentRepo repos.StudyContentRepo, gen *generation.Generator) *Pipeline {
	return &Pipeline{
		log:         baseLog.With("job", JobType),
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		gen:         gen,
	}
}
