// Package gentest provides a scripted text generator and canned generator outputs for tests.
package gentest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

// Call records one GenerateText invocation.
type Call struct {
	System string
	User   string
	Opts   openai.GenerateOptions
}

// Text is an openai.Client whose responses come from Respond.
type Text struct {
	mu      sync.Mutex
	calls   []Call
	Respond func(n int, call Call) (string, error)
}

func (t *Text) GenerateText(ctx context.Context, system string, user string, opts openai.GenerateOptions) (string, error) {
	call := Call{System: system, User: user, Opts: opts}
	t.mu.Lock()
	n := len(t.calls)
	t.calls = append(t.calls, call)
	t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.Respond == nil {
		return "", fmt.Errorf("gentest: no response scripted")
	}
	return t.Respond(n, call)
}

func (t *Text) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Fixed always returns out.
func Fixed(out string) *Text {
	return &Text{Respond: func(int, Call) (string, error) { return out, nil }}
}

// Sequence returns outs in order, then fails.
func Sequence(outs ...string) *Text {
	return &Text{Respond: func(n int, _ Call) (string, error) {
		if n >= len(outs) {
			return "", fmt.Errorf("gentest: call %d not scripted", n)
		}
		return outs[n], nil
	}}
}

// OutlineJSON builds an outline document with the given shape.
func OutlineJSON(title string, chapters, topics int) string {
	type topic struct {
		Topic       string `json:"topic"`
		Description string `json:"description"`
	}
	type chapter struct {
		ChapterTitle string  `json:"chapter_title"`
		Summary      string  `json:"summary"`
		Topics       []topic `json:"topics"`
		Emoji        string  `json:"emoji"`
	}
	type resource struct {
		Label       string `json:"label"`
		Description string `json:"description"`
	}
	doc := struct {
		CourseTitle         string     `json:"course_title"`
		Difficulty          string     `json:"difficulty"`
		Summary             string     `json:"summary"`
		Chapters            []chapter  `json:"chapters"`
		AdditionalResources []resource `json:"additional_resources"`
	}{
		CourseTitle: title,
		Difficulty:  "intermediate",
		Summary:     strings.TrimSpace(strings.Repeat("learn ", 60)),
	}
	for i := 0; i < chapters; i++ {
		ch := chapter{ChapterTitle: fmt.Sprintf("Chapter %d", i+1), Summary: "summary", Emoji: "📘"}
		for j := 0; j < topics; j++ {
			ch.Topics = append(ch.Topics, topic{Topic: fmt.Sprintf("Topic %d.%d", i+1, j+1), Description: "details"})
		}
		doc.Chapters = append(doc.Chapters, ch)
	}
	for i := 0; i < 3; i++ {
		doc.AdditionalResources = append(doc.AdditionalResources, resource{Label: fmt.Sprintf("Resource %d", i+1), Description: "reading"})
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

// QuizJSON builds n well-formed quiz items.
func QuizJSON(n int) string {
	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		opts := []string{fmt.Sprintf("A%d", i), fmt.Sprintf("B%d", i), fmt.Sprintf("C%d", i), fmt.Sprintf("D%d", i)}
		items = append(items, map[string]any{"question": fmt.Sprintf("Question %d?", i+1), "options": opts, "answer": opts[i%4]})
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// FlashcardsJSON builds n well-formed flashcards.
func FlashcardsJSON(n int) string {
	items := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]string{"front": fmt.Sprintf("Term %d", i+1), "back": fmt.Sprintf("Definition %d", i+1)})
	}
	b, _ := json.Marshal(items)
	return string(b)
}
