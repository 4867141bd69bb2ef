package courses

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	MinChapters         = 8
	MinTopicsPerChapter = 5
	MinResources        = 3
)

type CourseOutline struct {
	CourseTitle         string     `json:"course_title"`
	Difficulty          string     `json:"difficulty"`
	Summary             string     `json:"summary"`
	Chapters            []Chapter  `json:"chapters"`
	AdditionalResources []Resource `json:"additional_resources"`
}

type Chapter struct {
	ChapterTitle string  `json:"chapter_title"`
	Summary      string  `json:"summary"`
	Topics       []Topic `json:"topics"`
	Emoji        string  `json:"emoji,omitempty"`
}

type Topic struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

type Resource struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts "title" as an alias of "course_title".
func (o *CourseOutline) UnmarshalJSON(b []byte) error {
	type plain CourseOutline
	var aux struct {
		plain
		Title string `json:"title"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = CourseOutline(aux.plain)
	if strings.TrimSpace(o.CourseTitle) == "" {
		o.CourseTitle = aux.Title
	}
	return nil
}

// UnmarshalJSON accepts "title" as an alias of "chapter_title".
func (c *Chapter) UnmarshalJSON(b []byte) error {
	type plain Chapter
	var aux struct {
		plain
		Title string `json:"title"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Chapter(aux.plain)
	if strings.TrimSpace(c.ChapterTitle) == "" {
		c.ChapterTitle = aux.Title
	}
	return nil
}

// Validate checks the structural contract. Style issues are returned by Warnings.
func (o *CourseOutline) Validate() error {
	if o == nil {
		return fmt.Errorf("outline is empty")
	}
	if len(o.Chapters) < MinChapters {
		return fmt.Errorf("outline has %d chapters, need at least %d", len(o.Chapters), MinChapters)
	}
	for i, ch := range o.Chapters {
		if len(ch.Topics) < MinTopicsPerChapter {
			return fmt.Errorf("chapter %d (%q) has %d topics, need at least %d", i, ch.ChapterTitle, len(ch.Topics), MinTopicsPerChapter)
		}
	}
	return nil
}

func (o *CourseOutline) Warnings() []string {
	if o == nil {
		return nil
	}
	var out []string
	if strings.TrimSpace(o.CourseTitle) == "" {
		out = append(out, "missing course_title")
	}
	if strings.TrimSpace(o.Summary) == "" {
		out = append(out, "missing summary")
	} else if n := len(strings.Fields(o.Summary)); n < 50 || n > 100 {
		out = append(out, fmt.Sprintf("summary has %d words", n))
	}
	if len(o.AdditionalResources) < MinResources {
		out = append(out, fmt.Sprintf("only %d additional resources", len(o.AdditionalResources)))
	}
	return out
}
