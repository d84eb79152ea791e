package tableview

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Store is the key-value storage used for persisted filter state.
type Store interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Persistence enables filter persistence for one table instance.
type Persistence struct {
	Store Store
	Key   string
	TTL   time.Duration
}

type phase int

const (
	phaseLoading phase = iota
	phaseReady
)

func (p phase) String() string {
	if p == phaseReady {
		return "ready"
	}
	return "loading"
}

// loadFilters reads the persisted state. Any failure yields the defaults.
func loadFilters(ctx context.Context, p *Persistence, keys []string, logger *zap.Logger) FilterState {
	defaults := emptyFilterState(keys)
	if p == nil || p.Store == nil {
		return defaults
	}

	raw, err := p.Store.GetString(ctx, p.Key)
	if err != nil {
		logger.Warn("failed to read persisted filters", zap.String("key", p.Key), zap.Error(err))
		return defaults
	}
	if raw == "" {
		return defaults
	}

	var state FilterState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logger.Warn("discarding malformed persisted filters", zap.String("key", p.Key), zap.Error(err))
		return defaults
	}
	return state.normalize(keys)
}

// saveFilters writes the state. Failures are logged and dropped.
func saveFilters(ctx context.Context, p *Persistence, state FilterState, logger *zap.Logger) {
	if p == nil || p.Store == nil {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		logger.Warn("failed to encode filters", zap.String("key", p.Key), zap.Error(err))
		return
	}
	if err := p.Store.SetString(ctx, p.Key, string(data), p.TTL); err != nil {
		logger.Warn("failed to persist filters", zap.String("key", p.Key), zap.Error(err))
	}
}
