package generation

import (
	"context"
	"time"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

// Generator turns task prompts into validated course artifacts. It does not touch storage.
type Generator struct {
	text        openai.Client
	profiles    Profiles
	log         *logger.Logger
	callTimeout time.Duration
}

func NewGenerator(text openai.Client, profiles Profiles, callTimeout time.Duration, baseLog *logger.Logger) *Generator {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Generator{
		text:        text,
		profiles:    profiles,
		log:         baseLog.With("service", "Generator"),
		callTimeout: callTimeout,
	}
}

// complete issues one generation call under the per-call deadline.
func (g *Generator) complete(ctx context.Context, task Task, system, user string) (string, error) {
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}
	start := time.Now()
	out, err := g.text.GenerateText(ctx, system, user, g.profiles.For(task).Options())
	if err != nil {
		g.log.Warn("Generation call failed", "task", task, "elapsed", time.Since(start).String(), "error", err)
		return "", generationFailed(task, err)
	}
	g.log.Debug("Generation call finished", "task", task, "elapsed", time.Since(start).String(), "chars", len(out))
	return out, nil
}
