package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TestStatusPending   = "pending"
	TestStatusCompleted = "completed"
)

type PracticeTest struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"column:user_id;not null;index:idx_practice_test_lookup,priority:1" json:"user_id"`
	CourseID       string         `gorm:"column:course_id;not null;index:idx_practice_test_lookup,priority:2" json:"course_id"`
	ChapterID      int            `gorm:"column:chapter_id;not null;index:idx_practice_test_lookup,priority:3" json:"chapter_id"`
	Questions      datatypes.JSON `gorm:"column:questions;type:jsonb;not null" json:"questions"`
	Answers        datatypes.JSON `gorm:"column:answers;type:jsonb;not null" json:"answers"`
	Score          int            `gorm:"column:score;not null;default:0" json:"score"`
	TotalQuestions int            `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	TimeSpent      int            `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	Status         string         `gorm:"column:status;not null;index" json:"status"`
	CompletedAt    *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (PracticeTest) TableName() string { return "practice_test" }

func (p *PracticeTest) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
