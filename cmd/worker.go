package main

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"assetdesk/internal/jobs"
	"assetdesk/internal/services"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process queued report archive tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()
			cfg, log := a.cfg, a.logger

			minioSvc, err := a.minio()
			if err != nil {
				return err
			}
			if minioSvc == nil {
				return errors.New("the worker needs MINIO_ENDPOINT and a bucket to archive into")
			}
			if err := minioSvc.EnsureBucketExists(cmd.Context(), cfg.Minio.Bucket); err != nil {
				return err
			}
			if _, err := a.datasets.Reload(cmd.Context()); err != nil {
				return err
			}

			reportSvc := services.NewReportService(a.datasets, minioSvc, a.archiveConfig(), log)
			archiver := jobs.NewReportArchiver(reportSvc, a.location, log)

			srv := asynq.NewServer(
				asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
				asynq.Config{
					Concurrency: cfg.Jobs.WorkerConcurrency,
					Queues:      map[string]int{cfg.Jobs.WorkerQueue: 1},
					Logger:      log.Sugar(),
				},
			)
			mux := asynq.NewServeMux()
			// each task reads a fresh snapshot
			mux.Use(func(next asynq.Handler) asynq.Handler {
				return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
					if _, err := a.datasets.Reload(ctx); err != nil {
						return err
					}
					return next.ProcessTask(ctx, t)
				})
			})
			archiver.Register(mux)

			log.Info("worker starting", zap.String("queue", cfg.Jobs.WorkerQueue), zap.Int("concurrency", cfg.Jobs.WorkerConcurrency))
			return srv.Run(mux)
		},
	}
}
