package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type Repos struct {
	Course       repos.CourseRepo
	ChapterNote  repos.ChapterNoteRepo
	StudyContent repos.StudyContentRepo
	PracticeTest repos.PracticeTestRepo
	QuizResult   repos.QuizResultRepo
	JobRun       repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:       repos.NewCourseRepo(db, log),
		ChapterNote:  repos.NewChapterNoteRepo(db, log),
		StudyContent: repos.NewStudyContentRepo(db, log),
		PracticeTest: repos.NewPracticeTestRepo(db, log),
		QuizResult:   repos.NewQuizResultRepo(db, log),
		JobRun:       repos.NewJobRunRepo(db, log),
	}
}
