package app

import (
	"context"
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shiplabel/shiplabel-backend/internal/data/db"
	"github.com/shiplabel/shiplabel-backend/internal/http"
	"github.com/shiplabel/shiplabel-backend/internal/observability"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

const appVersion = "1.0.0"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	store        *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// Option tweaks New for commands that do not serve HTTP.
type Option func(*options)

type options struct {
	migrate bool
}

// WithoutMigrate skips AutoMigrateAll on startup.
func WithoutMigrate() Option {
	return func(o *options) { o.migrate = false }
}

func New(ctx context.Context, opts ...Option) (*App, error) {
	o := options{migrate: true}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := db.Open(cfg.Database.DBConfig(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := store.DB()
	if o.migrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			_ = store.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	metrics := observability.Init(log, cfg.MetricsEnabled)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OpenTelemetry.Enabled,
		ServiceName: cfg.OpenTelemetry.ServiceName,
		Environment: cfg.Environment,
		Version:     appVersion,
		Endpoint:    cfg.OpenTelemetry.Endpoint,
		Insecure:    cfg.OpenTelemetry.Insecure,
		Headers:     cfg.OpenTelemetry.Headers,
		SampleRatio: cfg.OpenTelemetry.SampleRatio,
	})

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(ctx, theDB, log, cfg, reposet, metrics)
	handlerset := wireHandlers(log, cfg, serviceset)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors. They stop on Close.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if a.Cfg.RedisAddr != "" {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("Server listening", "addr", addr)
	srv := &http.Server{Engine: a.Router}
	return srv.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	for _, c := range a.Services.closers {
		if err := c(); err != nil {
			a.Log.Warn("close client", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
