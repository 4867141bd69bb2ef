package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StudyTypeFlashcard = "flashcard"
	StudyTypeQuiz      = "quiz"
)

const (
	StudyStatusGenerating = "generating"
	StudyStatusReady      = "ready"
	StudyStatusError      = "error"
)

const StudyItemCount = 20

const QuizOptionCount = 4

func ValidStudyType(t string) bool {
	return t == StudyTypeFlashcard || t == StudyTypeQuiz
}

// StudyTypeContent is created empty in generating and moves once to ready or error.
type StudyTypeContent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string         `gorm:"column:course_id;not null;index" json:"course_id"`
	Type      string         `gorm:"column:type;not null;index" json:"type"`
	Status    string         `gorm:"column:status;not null;index" json:"status"`
	Chapters  datatypes.JSON `gorm:"column:chapters;type:jsonb;not null" json:"chapters"`
	Content   datatypes.JSON `gorm:"column:content;type:jsonb;not null" json:"content"`
	Error     string         `gorm:"column:error;type:text" json:"-"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (StudyTypeContent) TableName() string { return "study_type_content" }

func (s *StudyTypeContent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type FlashcardItem struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}
