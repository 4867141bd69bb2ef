package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChapterNote is written once per (course, chapter index).
type ChapterNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string    `gorm:"column:course_id;not null;uniqueIndex:idx_chapter_note_course_chapter,priority:1" json:"course_id"`
	ChapterID int       `gorm:"column:chapter_id;not null;uniqueIndex:idx_chapter_note_course_chapter,priority:2" json:"chapter_id"`
	Notes     string    `gorm:"column:notes;type:text;not null" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ChapterNote) TableName() string { return "chapter_note" }

func (n *ChapterNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
