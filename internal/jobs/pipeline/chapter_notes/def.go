package chapter_notes

import (
	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/generation"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const JobType = "chapter_notes"

type Pipeline struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	noteRepo   repos.ChapterNoteRepo
	gen        *generation.Generator
}

func New(baseLog *logger.Logger, courseRepo repos.CourseRepo, noteRepo repos.ChapterNoteRepo, gen *generation.Generator) *Pipeline {
	return &Pipeline{
		log:        baseLog.With("job", JobType),
		courseRepo: courseRepo,
		noteRepo:   noteRepo,
		gen:        gen,
	}
}
