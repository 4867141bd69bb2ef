package generation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursegen-backend/internal/pkg/pointers"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

type Task string

const (
	TaskOutline      Task = "outline"
	TaskNotes        Task = "notes"
	TaskStudyContent Task = "study_content"
)

// Profile is the fixed parameter set used for one task.
type Profile struct {
	Model            string   `yaml:"model"`
	Temperature      *float64 `yaml:"temperature"`
	MaxTokens        int      `yaml:"max_tokens"`
	TopP             *float64 `yaml:"top_p"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty"`
	PresencePenalty  *float64 `yaml:"presence_penalty"`
	JSON             *bool    `yaml:"json"`
}

func (p Profile) Options() openai.GenerateOptions {
	return openai.GenerateOptions{
		Model:            p.Model,
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
		JSON:             p.JSON != nil && *p.JSON,
	}
}

type Profiles map[Task]Profile

func boolPtr(v bool) *bool { return &v }

func DefaultProfiles() Profiles {
	return Profiles{
		TaskOutline: {
			Temperature:      pointers.Float64(0.7),
			MaxTokens:        4096,
			TopP:             pointers.Float64(0.9),
			FrequencyPenalty: pointers.Float64(0.3),
			PresencePenalty:  pointers.Float64(0.3),
			JSON:             boolPtr(true),
		},
		TaskNotes: {
			Temperature:      pointers.Float64(0.7),
			MaxTokens:        8192,
			TopP:             pointers.Float64(0.9),
			FrequencyPenalty: pointers.Float64(0.2),
			PresencePenalty:  pointers.Float64(0.1),
			JSON:             boolPtr(false),
		},
		TaskStudyContent: {
			Temperature:      pointers.Float64(0.6),
			MaxTokens:        6144,
			TopP:             pointers.Float64(0.9),
			FrequencyPenalty: pointers.Float64(0.4),
			PresencePenalty:  pointers.Float64(0.2),
			JSON:             boolPtr(false),
		},
	}
}

func (ps Profiles) For(task Task) Profile {
	if p, ok := ps[task]; ok {
		return p
	}
	return DefaultProfiles()[task]
}

// LoadProfiles returns the defaults overlaid with any fields set in the YAML file at path.
// An empty path returns the defaults.
//
//	outline:
//	  model: gpt-4o
//	  max_tokens: 6000
//	notes:
//	  temperature: 0.5
func LoadProfiles(path string) (Profiles, error) {
	out := DefaultProfiles()
	if path == "" {
		return out, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read generation profiles: %w", err)
	}
	var overrides map[Task]Profile
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse generation profiles: %w", err)
	}
	for task, o := range overrides {
		base, ok := out[task]
		if !ok {
			return nil, fmt.Errorf("unknown generation task %q", task)
		}
		out[task] = base.merge(o)
	}
	return out, nil
}

func (p Profile) merge(o Profile) Profile {
	if o.Model != "" {
		p.Model = o.Model
	}
	if o.Temperature != nil {
		p.Temperature = o.Temperature
	}
	if o.MaxTokens > 0 {
		p.MaxTokens = o.MaxTokens
	}
	if o.TopP != nil {
		p.TopP = o.TopP
	}
	if o.FrequencyPenalty != nil {
		p.FrequencyPenalty = o.FrequencyPenalty
	}
	if o.PresencePenalty != nil {
		p.PresencePenalty = o.PresencePenalty
	}
	if o.JSON != nil {
		p.JSON = o.JSON
	}
	return p
}
