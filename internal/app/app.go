package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/catalog"
	"github.com/dailytaiyari/backend/internal/db"
	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/observability"
	"github.com/dailytaiyari/backend/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	scheduler    *scheduler.Scheduler
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "dailytaiyari-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	if err := catalog.Seed(context.Background(), log, reposet.Badge, cfg.BadgeCatalogPath); err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed badge catalog: %w", err)
	}

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		scheduler:    scheduler.New(log, serviceset.Leaderboard, serviceset.StudySession),
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Start() error {
	if a == nil || a.scheduler == nil {
		return nil
	}
	return a.scheduler.Start()
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
