package app

import (
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/coursegen-backend/internal/platform/dedupe"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
	"github.com/yungbote/coursegen-backend/internal/temporalx"
)

type Clients struct {
	OpenaiClient openai.Client
	Dedupe       dedupe.Store
	Temporal     temporalsdkclient.Client
	TemporalCfg  temporalx.Config

	closers []func() error
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Openai
	openaiClient, err := openai.NewClient(log, openai.ConfigFromEnv())
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	out.OpenaiClient = openaiClient

	// Dedupe: Redis when configured, process-local otherwise
	if cfg.RedisAddr != "" {
		store, err := dedupe.NewRedisStore(log, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis dedupe store: %w", err)
		}
		out.Dedupe = store
		out.closers = append(out.closers, store.Close)
	} else {
		log.Warn("REDIS_ADDR not set; request de-duplication is process-local")
		out.Dedupe = dedupe.NewMemoryStore()
	}

	// Temporal
	if cfg.UsesTemporal() {
		tcfg := temporalx.LoadConfig()
		if !tcfg.Enabled() {
			out.Close()
			return Clients{}, fmt.Errorf("JOB_BACKEND=temporal requires TEMPORAL_ADDRESS")
		}
		tc, err := temporalx.NewClient(log, tcfg)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init temporal client: %w", err)
		}
		out.Temporal = tc
		out.TemporalCfg = tcfg
		out.closers = append(out.closers, func() error { tc.Close(); return nil })
	}

	return out, nil
}

func (c *Clients) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}
