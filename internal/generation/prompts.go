package generation

import (
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/courses"
	"github.com/yungbote/coursegen-backend/internal/platform/promptstyle"
)

var courseTypeGuidance = map[string]string{
	courses.TypeExamPrep:  "The learner is preparing for an exam. Emphasize exam-relevant concepts, common question patterns, and revision checkpoints.",
	courses.TypeInterview: "The learner is preparing for job interviews. Emphasize frequently asked questions, trade-offs, and how to explain answers out loud.",
	courses.TypePractice:  "The learner wants hands-on practice. Every chapter should build toward exercises the learner can attempt.",
	courses.TypeCoding:    "The learner is studying programming. Include implementation topics, complexity analysis, and code-level pitfalls.",
	courses.TypeCustom:    "Shape the course around the topic as described by the learner.",
}

func outlinePrompts(req OutlineRequest) (string, string) {
	system := promptstyle.ApplySystem(strings.Join([]string{
		"Design a structured course outline and return it as JSON.",
		"The JSON object must have exactly these keys:",
		`{"course_title": string, "difficulty": string, "summary": string (50-100 words),`,
		` "chapters": [{"chapter_title": string, "summary": string (at least 100 words), "topics": [{"topic": string, "description": string}], "emoji": string}],`,
		` "additional_resources": [{"label": string, "description": string}]}`,
		fmt.Sprintf("Include at least %d chapters. Every chapter must have at least %d topics.", courses.MinChapters, courses.MinTopicsPerChapter),
		fmt.Sprintf("Include at least %d additional resources.", courses.MinResources),
	}, "\n"), promptstyle.ModeJSON)

	guidance := courseTypeGuidance[req.CourseType]
	if guidance == "" {
		guidance = courseTypeGuidance[courses.TypeCustom]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Course type: %s\n", req.CourseType)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	b.WriteString(guidance)
	b.WriteString("\nReturn only the JSON object.")
	return system, b.String()
}

func notesPrompts(topic string, outline *courses.CourseOutline, index int) (string, string) {
	system := promptstyle.ApplySystem(strings.Join([]string{
		"Write detailed, long-form study notes for one chapter of a course.",
		"Use semantic HTML: <h2>, <h3>, <p>, <ul>, <ol>, <li>, <strong>, <em>, <pre><code>, <blockquote>, <table>.",
		"Cover every listed topic with explanations and worked examples.",
	}, "\n"), promptstyle.ModeHTML)

	ch := outline.Chapters[index]
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", firstNonEmpty(outline.CourseTitle, topic))
	if outline.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", outline.Difficulty)
	}
	fmt.Fprintf(&b, "Chapter %d of %d: %s\n", index+1, len(outline.Chapters), ch.ChapterTitle)
	if ch.Summary != "" {
		fmt.Fprintf(&b, "Chapter summary: %s\n", ch.Summary)
	}
	b.WriteString("Topics:\n")
	for _, t := range ch.Topics {
		if t.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", t.Topic, t.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", t.Topic)
		}
	}
	return system, b.String()
}

func studyPrompts(req StudyRequest) (string, string) {
	var rules []string
	switch req.Type {
	case courses.StudyTypeQuiz:
		rules = []string{
			fmt.Sprintf("Write exactly %d multiple-choice quiz questions as a JSON array.", courses.StudyItemCount),
			`Each element is {"question": string, "options": [string, string, string, string], "answer": string}.`,
			fmt.Sprintf("Every question has exactly %d options and the answer must exactly match one of its options.", courses.QuizOptionCount),
			"Mix difficulty: 30% basic, 50% intermediate, 20% advanced.",
		}
	default:
		rules = []string{
			fmt.Sprintf("Write exactly %d flashcards as a JSON array.", courses.StudyItemCount),
			`Each element is {"front": string, "back": string}. Keep fronts short and backs precise.`,
		}
	}
	rules = append(rules, "Return only the JSON array.")
	system := promptstyle.ApplySystem(strings.Join(rules, "\n"), promptstyle.ModeJSON)

	var b strings.Builder
	if req.Topic != "" {
		fmt.Fprintf(&b, "Course topic: %s\n", req.Topic)
	}
	b.WriteString("Chapters:\n")
	for _, ch := range req.Chapters {
		fmt.Fprintf(&b, "- %s\n", ch)
	}
	return system, b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
