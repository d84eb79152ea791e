package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"assetdesk/internal/config"
	"assetdesk/internal/logger"
	"assetdesk/internal/repositories"
	"assetdesk/internal/services"
	"assetdesk/pkg/database"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assetdesk",
		Short:         "Asset inventory dashboard service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", os.Getenv("ASSETDESK_CONFIG"), "Path to a TOML config file")

	root.AddCommand(newServeCmd(), newWorkerCmd(), newExportCmd(), newTokenCmd())
	return root
}

// app holds what every command needs: configuration, logger and the
// database-backed dataset.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	location *time.Location
	pool     *pgxpool.Pool
	datasets services.DatasetService
}

func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, database.Options{MaxConns: cfg.Database.MaxConns}, log)
	if err != nil {
		return nil, err
	}

	datasets := services.NewDatasetService(
		repositories.NewAssetRepository(pool),
		repositories.NewMaintenanceRepository(pool),
		repositories.NewTransferRepository(pool),
		repositories.NewUserRepo(pool),
		repositories.NewSiteRepository(pool),
		log,
	)
	return &app{
		cfg:      cfg,
		logger:   log,
		location: loc,
		pool:     pool,
		datasets: datasets,
	}, nil
}

func (a *app) minio() (services.MinioService, error) {
	m := a.cfg.Minio
	if m.Endpoint == "" || m.Bucket == "" {
		return nil, nil
	}
	svc, err := services.NewMinioService(m.Endpoint, m.AccessKey, m.SecretKey, m.Region, m.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO service: %w", err)
	}
	return svc, nil
}

func (a *app) archiveConfig() services.ReportArchiveConfig {
	return services.ReportArchiveConfig{
		Bucket:    a.cfg.Minio.Bucket,
		URLExpiry: a.cfg.Reports.URLExpiry.Duration,
	}
}

func (a *app) close() {
	a.pool.Close()
	_ = a.logger.Sync()
}
