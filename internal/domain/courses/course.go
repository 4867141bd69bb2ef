package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusGenerating = "Generating"
	StatusReady      = "Ready"
	StatusError      = "Error"
)

const (
	TypeExamPrep  = "exam-prep"
	TypeInterview = "interview"
	TypePractice  = "practice"
	TypeCoding    = "coding"
	TypeCustom    = "custom"
)

var CourseTypes = []string{TypeExamPrep, TypeInterview, TypePractice, TypeCoding, TypeCustom}

func ValidCourseType(t string) bool {
	for _, ct := range CourseTypes {
		if ct == t {
			return true
		}
	}
	return false
}

type Course struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	CourseID        string         `gorm:"column:course_id;not null;uniqueIndex" json:"course_id"`
	Topic           string         `gorm:"column:topic;not null" json:"topic"`
	CourseType      string         `gorm:"column:course_type;not null" json:"course_type"`
	DifficultyLevel string         `gorm:"column:difficulty_level" json:"difficulty_level"`
	CourseLayout    datatypes.JSON `gorm:"column:course_layout;type:jsonb;not null" json:"course_layout"`
	CreatedBy       string         `gorm:"column:created_by;index" json:"created_by"`
	CreatedFor      string         `gorm:"column:created_for;index" json:"created_for"`
	Status          string         `gorm:"column:status;not null;index" json:"status"`
	// Operator-facing failure cause; not serialized to callers.
	StatusMessage string    `gorm:"column:status_message;type:text" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
