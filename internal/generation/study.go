package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

type StudyRequest struct {
	Type     string
	Topic    string
	Chapters []string
}

func (r *StudyRequest) Normalize() error {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if !courses.ValidStudyType(r.Type) {
		return fmt.Errorf("type %q must be flashcard or quiz: %w", r.Type, pkgerrors.ErrInvalidArgument)
	}
	chapters := make([]string, 0, len(r.Chapters))
	for _, ch := range r.Chapters {
		if ch = strings.TrimSpace(ch); ch != "" {
			chapters = append(chapters, ch)
		}
	}
	if len(chapters) == 0 {
		return fmt.Errorf("at least one chapter is required: %w", pkgerrors.ErrInvalidArgument)
	}
	r.Chapters = chapters
	return nil
}

// StudySet holds exactly one of Flashcards or Quiz, depending on Type.
type StudySet struct {
	Type       string
	Flashcards []courses.FlashcardItem
	Quiz       []courses.QuizItem
}

func (s *StudySet) Len() int {
	if s.Type == courses.StudyTypeQuiz {
		return len(s.Quiz)
	}
	return len(s.Flashcards)
}

func (s *StudySet) MarshalJSON() ([]byte, error) {
	if s.Type == courses.StudyTypeQuiz {
		return json.Marshal(s.Quiz)
	}
	return json.Marshal(s.Flashcards)
}

// StudyContent generates exactly 20 flashcards or quiz questions for the chapters.
func (g *Generator) StudyContent(ctx context.Context, req StudyRequest) (*StudySet, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	system, user := studyPrompts(req)
	raw, err := g.complete(ctx, TaskStudyContent, system, user)
	if err != nil {
		return nil, err
	}
	set, err := ParseStudySet(req.Type, raw)
	if err != nil {
		g.log.Warn("Study content rejected", "type", req.Type, "error", err, "snippet", Snippet(raw))
		return nil, err
	}
	return set, nil
}

// ParseStudySet applies array recovery and validates count and per-item shape.
func ParseStudySet(studyType string, raw string) (*StudySet, error) {
	set := &StudySet{Type: studyType}
	switch studyType {
	case courses.StudyTypeQuiz:
		if err := DecodeArray(raw, &set.Quiz); err != nil {
			return nil, newMalformed(TaskStudyContent, err.Error(), raw)
		}
		for i, q := range set.Quiz {
			if err := validateQuizItem(q); err != nil {
				return nil, newMalformed(TaskStudyContent, fmt.Sprintf("item %d: %v", i, err), raw)
			}
		}
	case courses.StudyTypeFlashcard:
		if err := DecodeArray(raw, &set.Flashcards); err != nil {
			return nil, newMalformed(TaskStudyContent, err.Error(), raw)
		}
		for i, f := range set.Flashcards {
			if strings.TrimSpace(f.Front) == "" || strings.TrimSpace(f.Back) == "" {
				return nil, newMalformed(TaskStudyContent, fmt.Sprintf("item %d: empty front or back", i), raw)
			}
		}
	default:
		return nil, fmt.Errorf("unknown study type %q: %w", studyType, pkgerrors.ErrInvalidArgument)
	}
	if n := set.Len(); n != courses.StudyItemCount {
		return nil, newMalformed(TaskStudyContent, fmt.Sprintf("got %d items, want %d", n, courses.StudyItemCount), raw)
	}
	return set, nil
}

func validateQuizItem(q courses.QuizItem) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question")
	}
	if len(q.Options) != courses.QuizOptionCount {
		return fmt.Errorf("has %d options, want %d", len(q.Options), courses.QuizOptionCount)
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("answer %q is not one of the options", q.Answer)
}
