package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/db"
	"github.com/yungbote/coursegen-backend/internal/http"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.Open(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(log, cfg, clients, reposet)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	a := &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}
	if cfg.ServesAPI() {
		handlerset := wireHandlers(theDB, serviceset)
		a.Server = http.NewServer(routerConfig(log, cfg, clients, handlerset))
	}
	return a, nil
}

// StartWorkers launches whichever job backend this process runs. Workers stop when ctx is done.
func (a *App) StartWorkers(ctx context.Context) error {
	if a == nil || !a.Cfg.RunsWorkers() {
		return nil
	}
	if a.Services.TemporalWorker != nil {
		return a.Services.TemporalWorker.Start(ctx)
	}
	if a.Services.JobWorker != nil {
		a.Services.JobWorker.Start(ctx)
	}
	return nil
}

// WaitWorkers blocks until db-backend workers have drained.
func (a *App) WaitWorkers() {
	if a != nil && a.Services.JobWorker != nil {
		a.Services.JobWorker.Wait()
	}
}

func (a *App) ServeHTTP(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized for API")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
