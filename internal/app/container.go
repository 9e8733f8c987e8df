package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kapu/zenith-go/internal/api"
	"github.com/kapu/zenith-go/internal/config"
	"github.com/kapu/zenith-go/internal/metrics"
	"github.com/kapu/zenith-go/internal/service/ai"
	"github.com/kapu/zenith-go/internal/service/analysis"
	"github.com/kapu/zenith-go/internal/service/cache"
	"github.com/kapu/zenith-go/internal/service/database"
	"github.com/kapu/zenith-go/internal/service/handle"
	"github.com/kapu/zenith-go/internal/service/instagram"
	"github.com/kapu/zenith-go/internal/service/persona"
	"github.com/kapu/zenith-go/internal/service/store"
	"github.com/kapu/zenith-go/internal/service/youtube"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Container bundles the assembled services. Close releases them in reverse order.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Analyzer *analysis.Service
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	healthChecks map[string]api.HealthCheck
	closers      []func()
}

// Handler builds the HTTP router over the container's services.
func (c *Container) Handler() (http.Handler, func()) {
	limiter := api.NewRateLimiter(c.Config.Server.RatePerMinute, c.Config.Server.RateBurst, c.Logger)
	router := api.NewRouter(api.RouterDeps{
		Analyzer:       c.Analyzer,
		HealthChecks:   c.healthChecks,
		RateLimiter:    limiter,
		MetricsHandler: metrics.Handler(c.Registry),
		Recorder:       c.Metrics,
		RequestTimeout: c.Config.Server.WriteTimeout,
		Logger:         c.Logger,
	})
	return router, limiter.Stop
}

func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles every infrastructure service and the analysis orchestrator.
// Redis is optional: when it is disabled or unreachable the service runs without
// snapshot and channel-id caching.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	checks := make(map[string]api.HealthCheck)

	// Database
	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})
	checks["postgres"] = postgresSvc.Ping

	if cfg.Postgres.AutoMigrate {
		if err := database.RunMigrations(cfg.Postgres.URL()); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Database migrations applied")
	}

	// Cache
	var cacheSvc *cache.CacheService
	if cfg.Redis.Enabled {
		svc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			logger.Warn("Redis unavailable, continuing without cache", zap.Error(cacheErr))
		} else {
			cacheSvc = svc
			closers = append(closers, func() {
				_ = cacheSvc.Close()
			})
			checks["redis"] = cacheSvc.Ping
		}
	}

	var creatorStore store.Store = store.NewPostgresStore(postgresSvc, logger)
	if cacheSvc != nil {
		creatorStore = store.NewCachedStore(creatorStore, cacheSvc, cfg.Cache.SnapshotTTL, logger)
	}

	// Platform fetchers
	deps := analysis.Dependencies{
		Resolver: handle.NewResolver(logger),
		Store:    creatorStore,
	}

	if cfg.YouTube.Enabled() {
		var channelCache youtube.ChannelIDCache
		if cacheSvc != nil {
			channelCache = cacheSvc
		}
		ytFetcher, ytErr := youtube.NewFetcher(ctx, youtube.Config{
			APIKey:          cfg.YouTube.APIKey,
			CredentialsFile: cfg.YouTube.CredentialsFile,
			ChannelIDTTL:    cfg.Cache.ChannelIDTTL,
		}, channelCache, logger)
		if ytErr != nil {
			return nil, fmt.Errorf("failed to create YouTube fetcher: %w", ytErr)
		}
		deps.YouTube = ytFetcher
	} else {
		logger.Warn("YouTube is not configured; YouTube URLs will yield no data")
	}

	igFetcher := instagram.NewFetcher(instagram.Config{
		AccessToken:       cfg.Instagram.AccessToken,
		BusinessAccountID: cfg.Instagram.BusinessAccountID,
		GraphVersion:      cfg.Instagram.GraphVersion,
		RequestsPerMinute: cfg.Instagram.RequestsPerMinute,
	}, logger)
	deps.Instagram = igFetcher
	logger.Info("Instagram fetcher ready", zap.Bool("graph_api", igFetcher.UsesGraphAPI()))

	// AI stack
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:       cfg.Gemini.APIKey,
		OpenAIAPIKey:       cfg.OpenAI.APIKey,
		DefaultGeminiModel: cfg.Gemini.Model,
		DefaultOpenAIModel: cfg.OpenAI.Model,
		EnableFallback:     cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}
	deps.Persona = persona.NewGenerator(modelManager, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)
	deps.Metrics = collector

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Analyzer:     analysis.NewService(deps, logger),
		Registry:     registry,
		Metrics:      collector,
		healthChecks: checks,
		closers:      closers,
	}, nil
}
