package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/data-tales/datasources/internal/cache"
	"github.com/data-tales/datasources/internal/config"
	"github.com/data-tales/datasources/internal/httpserver"
	"github.com/data-tales/datasources/internal/httpserver/deps"
	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/ogc"
	"github.com/data-tales/datasources/internal/pipeline"
	"github.com/data-tales/datasources/internal/redis"
	"github.com/data-tales/datasources/internal/registry"
	"github.com/data-tales/datasources/internal/scheduler"
	redisstore "github.com/data-tales/datasources/internal/store/redis"
	"github.com/data-tales/datasources/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	prewarmer   *scheduler.Prewarmer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// The shared Redis tier is optional: when it cannot be reached the
	// service still works with the in-process cache alone.
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ReadTimeout:    cfg.RedisReadTimeout,
			WriteTimeout:   cfg.RedisWriteTimeout,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Warnf("Redis unavailable, continuing with memory cache only: %v", err)
		} else {
			redisClient = client
		}
	}

	// Service registry is mandatory: without it there is nothing to serve.
	reg, err := registry.Load(cfg.ServiceFile)
	if err != nil {
		loggerClient.Errorf("Failed to load service registry from %s: %v", cfg.ServiceFile, err)
		os.Exit(1)
	}
	loggerClient.Infof("Loaded %d services from %s", reg.Len(), cfg.ServiceFile)

	transport := ogc.NewTransport(ogc.TransportConfig{
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		RetryCount:     cfg.RetryCount,
		RetryBackoff:   cfg.RetryBackoff,
		MaxBytes:       cfg.MaxResponseBytes,
		UserAgent:      cfg.UserAgent,
	}, loggerClient)

	negotiator := ogc.NewNegotiator(transport, cfg.MaxURLLen, loggerClient)

	resultCache := cache.New(cfg.CacheTTL, cfg.CacheCapacity)

	var store *redisstore.Store
	if redisClient != nil {
		store = redisstore.NewStore(redisClient)
	}

	pipe := pipeline.New(reg, negotiator, resultCache, store, loggerClient)

	var prewarmer *scheduler.Prewarmer
	var prewarmTrigger chan struct{}
	if len(cfg.PrewarmServices) > 0 {
		prewarmTrigger = make(chan struct{}, 1)
		prewarmer = scheduler.NewPrewarmer(
			pipe,
			resultCache,
			cfg.PrewarmServices,
			cfg.PrewarmInterval,
			loggerClient,
			prewarmTrigger,
		)
	} else {
		loggerClient.Info("no prewarm services configured, prewarming disabled")
	}

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		Pipeline:       pipe,
		Registry:       reg,
		RedisClient:    redisClient,
		PrewarmTrigger: prewarmTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		prewarmer:   prewarmer,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting data-sources v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("data-sources %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.prewarmer != nil {
		if err := a.prewarmer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start prewarmer: %w", err)
		}
		a.logger.Info("prewarmer started",
			logger.Duration("interval", a.cfg.PrewarmInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.prewarmer != nil {
		a.prewarmer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ data-sources stopped cleanly")
	return nil
}
