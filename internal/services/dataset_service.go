package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"assetdesk/internal/lookup"
	"assetdesk/internal/models"
	"assetdesk/internal/repositories"
)

var (
	datasetRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "assetdesk_dataset_records",
		Help: "Records held in the in-memory dataset, by entity.",
	}, []string{"entity"})
	datasetReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetdesk_dataset_reloads_total",
		Help: "Dataset reloads from the database, by outcome.",
	}, []string{"outcome"})
)

// Dataset is an immutable snapshot of every record the dashboard shows.
// Slices must not be modified by readers.
type Dataset struct {
	Version     uint64
	LoadedAt    time.Time
	Assets      []models.Asset
	Maintenance []models.MaintenanceEvent
	Transfers   []models.Transfer
	Users       []models.User
	Sites       []models.Site
	Lookups     *lookup.Index
}

type DatasetService interface {
	// Snapshot returns the current dataset. Before the first successful
	// reload it is empty with version 0.
	Snapshot() *Dataset
	// Reload reads every table and swaps the snapshot. On error the previous
	// snapshot stays current.
	Reload(ctx context.Context) (*Dataset, error)
}

type datasetService struct {
	assets      repositories.AssetRepository
	maintenance repositories.MaintenanceRepository
	transfers   repositories.TransferRepository
	users       repositories.UserRepository
	sites       repositories.SiteRepository
	logger      *zap.Logger

	reloadMu sync.Mutex
	current  atomic.Pointer[Dataset]
}

func NewDatasetService(
	assets repositories.AssetRepository,
	maintenance repositories.MaintenanceRepository,
	transfers repositories.TransferRepository,
	users repositories.UserRepository,
	sites repositories.SiteRepository,
	logger *zap.Logger,
) DatasetService {
	s := &datasetService{
		assets:      assets,
		maintenance: maintenance,
		transfers:   transfers,
		users:       users,
		sites:       sites,
		logger:      logger,
	}
	s.current.Store(&Dataset{Lookups: lookup.New(nil, nil, nil)})
	return s
}

func (s *datasetService) Snapshot() *Dataset {
	return s.current.Load()
}

func (s *datasetService) Reload(ctx context.Context) (*Dataset, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	next, err := s.load(ctx)
	if err != nil {
		datasetReloadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("dataset reload failed", zap.Error(err))
		return nil, err
	}
	next.Version = s.current.Load().Version + 1
	next.LoadedAt = time.Now()
	next.Lookups = lookup.New(next.Assets, next.Users, next.Sites)
	s.current.Store(next)

	datasetReloadsTotal.WithLabelValues("success").Inc()
	datasetRecords.WithLabelValues("assets").Set(float64(len(next.Assets)))
	datasetRecords.WithLabelValues("maintenances").Set(float64(len(next.Maintenance)))
	datasetRecords.WithLabelValues("transfers").Set(float64(len(next.Transfers)))
	datasetRecords.WithLabelValues("users").Set(float64(len(next.Users)))
	datasetRecords.WithLabelValues("sites").Set(float64(len(next.Sites)))
	s.logger.Info("dataset reloaded",
		zap.Uint64("version", next.Version),
		zap.Int("assets", len(next.Assets)),
		zap.Int("maintenances", len(next.Maintenance)),
		zap.Int("transfers", len(next.Transfers)),
		zap.Duration("took", time.Since(start)),
	)
	return next, nil
}

func (s *datasetService) load(ctx context.Context) (*Dataset, error) {
	var (
		d   Dataset
		err error
	)
	if d.Assets, err = s.assets.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	if d.Maintenance, err = s.maintenance.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to load maintenances: %w", err)
	}
	if d.Transfers, err = s.transfers.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	if d.Users, err = s.users.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if d.Sites, err = s.sites.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	return &d, nil
}
