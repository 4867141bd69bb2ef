package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultChapterID = 1

// QuizResult rows are append-only; every attempt is its own row.
type QuizResult struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"column:user_id;not null;index:idx_quiz_result_user_course,priority:1" json:"user_id"`
	CourseID       string         `gorm:"column:course_id;not null;index:idx_quiz_result_user_course,priority:2" json:"course_id"`
	ChapterID      int            `gorm:"column:chapter_id;not null" json:"chapter_id"`
	Score          int            `gorm:"column:score;not null" json:"score"`
	TotalQuestions int            `gorm:"column:total_questions;not null" json:"total_questions"`
	TimeSpent      int            `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	Answers        datatypes.JSON `gorm:"column:answers;type:jsonb;not null" json:"answers"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
}

func (QuizResult) TableName() string { return "quiz_result" }

func (q *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
