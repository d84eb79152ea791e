package tableview

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	memoHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetdesk_view_memo_hits_total",
		Help: "Table view recomputations served from the memo cache.",
	})
	memoMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetdesk_view_memo_misses_total",
		Help: "Table view recomputations that ran the filter and sort pipeline.",
	})
)

// memo caches filtered+sorted index lists keyed by
// (records version, filter state, sort state).
type memo struct {
	cache *lru.Cache[string, []int]
}

func newMemo(size int) (*memo, error) {
	if size <= 0 {
		return nil, nil
	}
	cache, err := lru.New[string, []int](size)
	if err != nil {
		return nil, err
	}
	return &memo{cache: cache}, nil
}

func (m *memo) get(key string) ([]int, bool) {
	if m == nil {
		return nil, false
	}
	idx, ok := m.cache.Get(key)
	if ok {
		memoHitsTotal.Inc()
		return idx, true
	}
	memoMissesTotal.Inc()
	return nil, false
}

func (m *memo) add(key string, idx []int) {
	if m == nil {
		return
	}
	m.cache.Add(key, idx)
}

func (m *memo) purge() {
	if m == nil {
		return
	}
	m.cache.Purge()
}
