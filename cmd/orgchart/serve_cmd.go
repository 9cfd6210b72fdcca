package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/orgwise/orgchart-service/internal/api/http"
	"github.com/orgwise/orgchart-service/internal/auth"
	"github.com/orgwise/orgchart-service/internal/cache"
	"github.com/orgwise/orgchart-service/internal/config"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
	"github.com/orgwise/orgchart-service/internal/persistence/memory"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/internal/service"
	"github.com/orgwise/orgchart-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := observability.NewLogger(cfg.Logger, cfg.App)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.App, logger)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	var (
		pg    *persistence.Postgres
		store *repository.Store
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(cfg.Postgres.DSN, persistence.MigrateUp, logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		store = repository.NewPostgresStore(pg.Pool)
	default:
		logger.Warn("using in-memory store; data is lost on exit")
		store = memory.NewStore().Repositories()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()
	readCache := cache.NewReadCache(redis.Client, cfg.Cache.TTL, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartChangeWorker(service.NewChangeListener(dispatcher, readCache, logger))

	metrics := observability.NewMetrics()
	org := service.NewOrgService(service.OrgDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Cache:      readCache,
		Metrics:    metrics,
		Logger:     logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if cfg.Auth.Disabled {
		logger.Warn("authentication disabled; every caller is an editor")
	}

	app := httptransport.NewApp(httptransport.ServerDependencies{
		ServiceName:    cfg.App.Name,
		Version:        cfg.App.Version,
		Org:            org,
		AuthMiddleware: auth.NewAuthMiddleware(tokens, cfg.Auth.Disabled),
		Postgres:       pg,
		Redis:          redis,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}
