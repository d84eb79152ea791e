package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"assetdesk/internal/common"
	"assetdesk/internal/lookup"
	"assetdesk/internal/models"
	"assetdesk/internal/reports"
	"assetdesk/internal/tables"
	"assetdesk/internal/tableview"
)

// Workspace is one user's set of table views plus the export guard of the
// session.
type Workspace struct {
	UserID      uuid.UUID
	Inventory   *tableview.View[models.Asset]
	Maintenance *tableview.View[models.MaintenanceEvent]
	Transfers   *tableview.View[models.Transfer]
	Exports     *reports.Guard

	loadOnce sync.Once
	mu       sync.Mutex
	version  uint64
}

// load reads persisted filters once, before any mutation can persist.
func (w *Workspace) load(ctx context.Context) {
	w.loadOnce.Do(func() {
		w.Inventory.Load(ctx)
		w.Maintenance.Load(ctx)
		w.Transfers.Load(ctx)
	})
}

// Table returns the view registered under name.
func (w *Workspace) Table(name string) (tableview.Table, bool) {
	switch name {
	case tables.InventoryTable:
		return w.Inventory, true
	case tables.MaintenanceTable:
		return w.Maintenance, true
	case tables.TransfersTable:
		return w.Transfers, true
	}
	return nil, false
}

// sync replaces the view records when the dataset has moved on.
func (w *Workspace) sync(d *Dataset) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.version == d.Version {
		return
	}
	w.Inventory.SetRecords(d.Assets)
	w.Maintenance.SetRecords(d.Maintenance)
	w.Transfers.SetRecords(d.Transfers)
	w.version = d.Version
}

type WorkspaceOptions struct {
	Size      int
	TTL       time.Duration
	PageSize  int
	MemoSize  int
	FilterTTL time.Duration
}

type WorkspaceService interface {
	// Get returns the session's workspace, creating and loading it on first
	// use, with records matching the current dataset.
	Get(ctx context.Context, session common.Session) *Workspace
	Evict(userID uuid.UUID)
	Len() int
}

type workspaceService struct {
	datasets DatasetService
	store    tableview.Store
	opts     WorkspaceOptions
	logger   *zap.Logger

	mu    sync.Mutex
	cache *expirable.LRU[uuid.UUID, *Workspace]
}

func NewWorkspaceService(datasets DatasetService, store tableview.Store, opts WorkspaceOptions, logger *zap.Logger) WorkspaceService {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	return &workspaceService{
		datasets: datasets,
		store:    store,
		opts:     opts,
		logger:   logger,
		cache:    expirable.NewLRU[uuid.UUID, *Workspace](opts.Size, nil, opts.TTL),
	}
}

func (s *workspaceService) Get(ctx context.Context, session common.Session) *Workspace {
	s.mu.Lock()
	ws, ok := s.cache.Get(session.UserID)
	if !ok {
		ws = s.newWorkspace(session.UserID)
		s.cache.Add(session.UserID, ws)
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("workspace created", zap.String("user_id", session.UserID.String()))
	}
	ws.load(ctx)
	ws.sync(s.datasets.Snapshot())
	return ws
}

func (s *workspaceService) newWorkspace(userID uuid.UUID) *Workspace {
	d := s.datasets.Snapshot()
	lookups := func() *lookup.Index { return s.datasets.Snapshot().Lookups }
	opts := tables.Options{
		UserID:   userID,
		Store:    s.store,
		PageSize: s.opts.PageSize,
		MemoSize: s.opts.MemoSize,
		StateTTL: s.opts.FilterTTL,
		Logger:   s.logger.With(zap.String("user_id", userID.String())),
	}
	return &Workspace{
		UserID:      userID,
		Inventory:   tables.Inventory(d.Assets, lookups, opts),
		Maintenance: tables.Maintenance(d.Maintenance, lookups, opts),
		Transfers:   tables.Transfers(d.Transfers, lookups, opts),
		Exports:     &reports.Guard{},
		version:     d.Version,
	}
}

func (s *workspaceService) Evict(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(userID)
}

func (s *workspaceService) Len() int {
	return s.cache.Len()
}
