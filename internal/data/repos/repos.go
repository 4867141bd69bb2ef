package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos/assessment"
	"github.com/yungbote/coursegen-backend/internal/data/repos/courses"
	"github.com/yungbote/coursegen-backend/internal/data/repos/jobs"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CourseRepo = courses.CourseRepo
type ChapterNoteRepo = courses.ChapterNoteRepo
type StudyContentRepo = courses.StudyContentRepo

type PracticeTestRepo = assessment.PracticeTestRepo
type QuizResultRepo = assessment.QuizResultRepo
type PracticeTestSubmission = assessment.Submission

type JobRunRepo = jobs.JobRunRepo

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo {
	return courses.NewCourseRepo(db, log)
}

func NewChapterNoteRepo(db *gorm.DB, log *logger.Logger) ChapterNoteRepo {
	return courses.NewChapterNoteRepo(db, log)
}

func NewStudyContentRepo(db *gorm.DB, log *logger.Logger) StudyContentRepo {
	return courses.NewStudyContentRepo(db, log)
}

func NewPracticeTestRepo(db *gorm.DB, log *logger.Logger) PracticeTestRepo {
	return assessment.NewPracticeTestRepo(db, log)
}

func NewQuizResultRepo(db *gorm.DB, log *logger.Logger) QuizResultRepo {
	return assessment.NewQuizResultRepo(db, log)
}

func NewJobRunRepo(db *gorm.DB, log *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, log)
}
