package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/coursegen-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Courses
		&types.Course{},
		&types.ChapterNote{},
		&types.StudyTypeContent{},

		// Assessment
		&types.PracticeTest{},
		&types.QuizResult{},

		// Jobs
		&types.JobRun{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
