package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const (
	RunModeAll    = "all"
	RunModeAPI    = "api"
	RunModeWorker = "worker"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string

	RunMode         string
	Port            string
	ShutdownTimeout time.Duration
	CORSOrigins     string

	// JobBackend is "db" (polling worker pool) or "temporal".
	JobBackend string

	GenerationCallTimeout time.Duration
	GenerationProfiles    string

	DedupeTTL    time.Duration
	RedisAddr    string
	RedisPrefix  string
	AutoMigrate  bool
	JobHeartbeat time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:           envutil.String("SERVICE_NAME", "coursegen"),
		Environment:           envutil.String("ENVIRONMENT", "development"),
		Version:               envutil.String("SERVICE_VERSION", "dev"),
		RunMode:               strings.ToLower(envutil.String("RUN_MODE", RunModeAll)),
		Port:                  envutil.String("PORT", "8080"),
		ShutdownTimeout:       envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15),
		CORSOrigins:           envutil.String("CORS_ALLOWED_ORIGINS", ""),
		JobBackend:            strings.ToLower(envutil.String("JOB_BACKEND", "db")),
		GenerationCallTimeout: envutil.Seconds("GENERATION_CALL_TIMEOUT_SECONDS", 300),
		GenerationProfiles:    envutil.String("GENERATION_PROFILES_FILE", ""),
		DedupeTTL:             envutil.Seconds("DEDUPE_TTL_SECONDS", 10),
		RedisAddr:             envutil.String("REDIS_ADDR", ""),
		RedisPrefix:           envutil.String("REDIS_KEY_PREFIX", "coursegen"),
		AutoMigrate:           envutil.Bool("DB_AUTO_MIGRATE", true),
		JobHeartbeat:          envutil.Seconds("JOB_HEARTBEAT_SECONDS", 30),
	}
	if log != nil {
		log.Info("Config loaded",
			"run_mode", cfg.RunMode,
			"port", cfg.Port,
			"job_backend", cfg.JobBackend,
			"dedupe_shared", cfg.RedisAddr != "",
		)
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.RunMode {
	case RunModeAll, RunModeAPI, RunModeWorker:
	default:
		return fmt.Errorf("unsupported RUN_MODE %q", c.RunMode)
	}
	switch c.JobBackend {
	case "db", "temporal":
	default:
		return fmt.Errorf("unsupported JOB_BACKEND %q", c.JobBackend)
	}
	return nil
}

func (c Config) ServesAPI() bool { return c.RunMode == RunModeAll || c.RunMode == RunModeAPI }
func (c Config) RunsWorkers() bool { return c.RunMode == RunModeAll || c.RunMode == RunModeWorker }
func (c Config) UsesTemporal() bool { return c.JobBackend == "temporal" }
