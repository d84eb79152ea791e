package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"assetdesk/internal/caching"
	"assetdesk/internal/handlers"
	"assetdesk/internal/jobs/background"
	"assetdesk/internal/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cmd)
		},
	}
}

func serve(ctx context.Context, cmd *cobra.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.logger

	if cfg.Auth.SecretGenerated {
		log.Warn("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err := cacheSvc.Ping(ctx); err != nil {
		// filters fall back to defaults until redis is reachable
		log.Warn("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	minioSvc, err := a.minio()
	if err != nil {
		return err
	}
	if minioSvc != nil {
		if err := minioSvc.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
			log.Warn("report archive bucket unavailable", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
		}
	}

	if _, err := a.datasets.Reload(ctx); err != nil {
		log.Warn("initial dataset load failed, serving empty tables until the next refresh", zap.Error(err))
	}

	workspaces := services.NewWorkspaceService(a.datasets, cacheSvc, services.WorkspaceOptions{
		Size:      cfg.Tables.Workspaces,
		TTL:       cfg.Tables.WorkspaceTTL.Duration,
		PageSize:  cfg.Tables.PageSize,
		MemoSize:  cfg.Tables.MemoSize,
		FilterTTL: cfg.Redis.FilterTTL.Duration,
	}, log)
	reportSvc := services.NewReportService(a.datasets, minioSvc, a.archiveConfig(), log)

	if cfg.Jobs.Enabled {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()

		var enqueuer background.Enqueuer
		if minioSvc != nil {
			enqueuer = client
		}
		scheduler, err := background.NewJobScheduler(a.datasets, enqueuer, background.Options{
			RefreshInterval: cfg.Jobs.DatasetRefresh.Duration,
			ArchiveAt:       cfg.Jobs.ArchiveAt,
			Queue:           cfg.Jobs.WorkerQueue,
			Location:        a.location,
		}, log)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Warn("scheduler shutdown", zap.Error(err))
			}
		}()
	}

	e := handlers.NewServer(handlers.Routes{
		Health:       handlers.NewHealthHandlers(a.pool, cacheSvc, minioSvc, cfg.Minio.Bucket, a.datasets, version),
		Tables:       handlers.NewTableHandlers(workspaces, a.datasets, log),
		Reports:      handlers.NewReportHandlers(reportSvc, workspaces, a.location, log),
		JWTSecret:    cfg.Auth.Secret,
		BuildVersion: version,
		Logger:       log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info("assetdesk server starting", zap.String("version", version), zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
