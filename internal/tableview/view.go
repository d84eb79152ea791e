package tableview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPageSize is used when Config.PageSize is zero.
const DefaultPageSize = 10

var (
	ErrUnknownFilter   = errors.New("unknown filter")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrNotSortable     = errors.New("column is not sortable")
	ErrNotHideable     = errors.New("column cannot be hidden")
	ErrInvalidPageSize = errors.New("page size must be at least 1")
)

// Config describes one table instance.
type Config[T any] struct {
	Name        string
	Columns     []Column[T]
	Filters     []FilterDef[T]
	RowKey      func(T) string
	PageSize    int
	Persistence *Persistence
	DefaultSort SortState
	MemoSize    int
	Logger      *zap.Logger
}

// Header describes a visible column.
type Header struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	Hideable bool   `json:"hideable"`
}

// Row is one rendered record.
type Row struct {
	Key   string `json:"key,omitempty"`
	Cells []Cell `json:"cells"`
}

// Page is the rendered state of a view.
type Page struct {
	Table         string              `json:"table"`
	Loaded        bool                `json:"loaded"`
	Columns       []Header            `json:"columns"`
	Visibility    map[string]bool     `json:"visibility"`
	Rows          []Row               `json:"rows"`
	Shown         int                 `json:"shown"`
	Total         int                 `json:"total"`
	PageIndex     int                 `json:"pageIndex"`
	PageSize      int                 `json:"pageSize"`
	PageCount     int                 `json:"pageCount"`
	CanPrev       bool                `json:"canPrev"`
	CanNext       bool                `json:"canNext"`
	Filters       FilterState         `json:"filters"`
	FilterOptions map[string][]string `json:"filterOptions,omitempty"`
	Sort          SortState           `json:"sort"`
}

// Table is the record-type independent surface of a View.
type Table interface {
	Name() string
	Load(ctx context.Context)
	Loaded() bool
	SetGlobalFilter(ctx context.Context, search string)
	SetFilter(ctx context.Context, key, value string) error
	SetFilters(ctx context.Context, state FilterState) error
	ResetFilters(ctx context.Context)
	ToggleSort(column string) error
	NextPage()
	PrevPage()
	SetPageSize(n int) error
	ToggleColumn(column string) error
	SetColumnVisible(column string, visible bool) error
	Render() Page
}

// View is a filterable, sortable, paginated table over records of type T.
type View[T any] struct {
	mu         sync.Mutex
	cfg        Config[T]
	logger     *zap.Logger
	columns    map[string]int
	filterKeys []string

	records []T
	version uint64

	phase     phase
	filters   FilterState
	sort      SortState
	pageIndex int
	pageSize  int
	hidden    map[string]bool

	memo *memo
}

var _ Table = (*View[struct{}])(nil)

// New builds a view in the loading phase over a copy of records.
func New[T any](cfg Config[T], records []T) *View[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	v := &View[T]{
		cfg:      cfg,
		logger:   logger.With(zap.String("table", cfg.Name)),
		columns:  make(map[string]int, len(cfg.Columns)),
		records:  slices.Clone(records),
		version:  1,
		phase:    phaseLoading,
		sort:     slices.Clone(cfg.DefaultSort),
		pageSize: pageSize,
		hidden:   make(map[string]bool),
	}
	for i, c := range cfg.Columns {
		v.columns[c.Key] = i
	}
	for _, f := range cfg.Filters {
		v.filterKeys = append(v.filterKeys, f.Key)
	}
	v.filters = emptyFilterState(v.filterKeys)

	m, err := newMemo(cfg.MemoSize)
	if err != nil {
		v.logger.Warn("memo cache disabled", zap.Error(err))
	}
	v.memo = m
	return v
}

func (v *View[T]) Name() string { return v.cfg.Name }

// Load reads persisted filters and moves the view to Ready. It never writes
// to the store and never fails; unusable state falls back to the defaults.
func (v *View[T]) Load(ctx context.Context) {
	v.mu.Lock()
	if v.phase == phaseReady {
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	state := loadFilters(ctx, v.cfg.Persistence, v.filterKeys, v.logger)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phase == phaseReady {
		return
	}
	v.filters = state
	v.pageIndex = 0
	v.phase = phaseReady
	v.logger.Debug("table view ready", zap.Bool("filtersActive", state.Active()))
}

func (v *View[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase == phaseReady
}

func (v *View[T]) SetGlobalFilter(ctx context.Context, search string) {
	v.mu.Lock()
	next := v.filters.clone()
	next.GlobalFilter = search
	v.applyFiltersLocked(ctx, next)
}

func (v *View[T]) SetFilter(ctx context.Context, key, value string) error {
	v.mu.Lock()
	if !slices.Contains(v.filterKeys, key) {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	next := v.filters.clone()
	next.Values[key] = value
	v.applyFiltersLocked(ctx, next)
	return nil
}

// SetFilters replaces the whole filter state. Keys not present in state are
// cleared.
func (v *View[T]) SetFilters(ctx context.Context, state FilterState) error {
	for key := range state.Values {
		if !slices.Contains(v.filterKeys, key) {
			return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
		}
	}
	v.mu.Lock()
	v.applyFiltersLocked(ctx, state.normalize(v.filterKeys))
	return nil
}

func (v *View[T]) ResetFilters(ctx context.Context) {
	v.mu.Lock()
	v.applyFiltersLocked(ctx, emptyFilterState(v.filterKeys))
}

// applyFiltersLocked must be called with v.mu held; it releases the lock
// before touching the store.
func (v *View[T]) applyFiltersLocked(ctx context.Context, next FilterState) {
	v.filters = next
	v.pageIndex = 0
	persist := v.phase == phaseReady
	snapshot := next.clone()
	v.mu.Unlock()

	if persist {
		saveFilters(ctx, v.cfg.Persistence, snapshot, v.logger)
	}
}

func (v *View[T]) ToggleSort(column string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i, ok := v.columns[column]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if !v.cfg.Columns[i].Sortable {
		return fmt.Errorf("%w: %s", ErrNotSortable, column)
	}
	v.sort = v.sort.toggle(column)
	return nil
}

func (v *View[T]) NextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pageIndex+1 < v.pageCountLocked(len(v.indexLocked())) {
		v.pageIndex++
	}
}

func (v *View[T]) PrevPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pageIndex > 0 {
		v.pageIndex--
	}
}

func (v *View[T]) SetPageSize(n int) error {
	if n < 1 {
		return ErrInvalidPageSize
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pageSize = n
	v.pageIndex = 0
	return nil
}

func (v *View[T]) ToggleColumn(column string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.hideableLocked(column); err != nil {
		return err
	}
	v.hidden[column] = !v.hidden[column]
	return nil
}

func (v *View[T]) SetColumnVisible(column string, visible bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.hideableLocked(column); err != nil {
		return err
	}
	v.hidden[column] = !visible
	return nil
}

func (v *View[T]) hideableLocked(column string) error {
	i, ok := v.columns[column]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if !v.cfg.Columns[i].Hideable {
		return fmt.Errorf("%w: %s", ErrNotHideable, column)
	}
	return nil
}

// SetRecords replaces the record set and keeps the page index in range.
func (v *View[T]) SetRecords(records []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records = slices.Clone(records)
	v.version++
	v.memo.purge()
	if last := v.pageCountLocked(len(v.indexLocked())) - 1; v.pageIndex > last {
		v.pageIndex = last
	}
}

// Filters returns a copy of the current filter state.
func (v *View[T]) Filters() FilterState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters.clone()
}

// Visible returns the filtered and sorted records as a new slice.
func (v *View[T]) Visible() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.indexLocked()
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = v.records[j]
	}
	return out
}

func (v *View[T]) Render() Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	page := Page{
		Table:      v.cfg.Name,
		Loaded:     v.phase == phaseReady,
		Visibility: make(map[string]bool),
		Rows:       []Row{},
		PageSize:   v.pageSize,
		PageCount:  1,
		Filters:    v.filters.clone(),
		Sort:       slices.Clone(v.sort),
	}

	visible := make([]Column[T], 0, len(v.cfg.Columns))
	for _, c := range v.cfg.Columns {
		if c.Hideable {
			page.Visibility[c.Key] = !v.hidden[c.Key]
		}
		if c.Hideable && v.hidden[c.Key] {
			continue
		}
		visible = append(visible, c)
		page.Columns = append(page.Columns, Header{
			Key:      c.Key,
			Label:    c.Renderer.Header(),
			Sortable: c.Sortable,
			Hideable: c.Hideable,
		})
	}
	for _, f := range v.cfg.Filters {
		if len(f.Options) > 0 {
			if page.FilterOptions == nil {
				page.FilterOptions = make(map[string][]string)
			}
			page.FilterOptions[f.Key] = slices.Clone(f.Options)
		}
	}

	if page.Loaded {
		idx := v.indexLocked()
		page.Shown = len(idx)
		page.Total = len(v.records)
		page.PageCount = v.pageCountLocked(len(idx))
		page.PageIndex = min(v.pageIndex, page.PageCount-1)

		start := page.PageIndex * v.pageSize
		end := min(start+v.pageSize, len(idx))
		for _, j := range idx[start:end] {
			page.Rows = append(page.Rows, v.renderRow(v.records[j], visible))
		}
		page.CanPrev = page.PageIndex > 0
		page.CanNext = page.PageIndex+1 < page.PageCount
	}
	return page
}

func (v *View[T]) renderRow(record T, columns []Column[T]) Row {
	row := Row{Cells: make([]Cell, len(columns))}
	if v.cfg.RowKey != nil {
		row.Key = v.cfg.RowKey(record)
	}
	for i, c := range columns {
		row.Cells[i] = c.Renderer.Cell(record)
	}
	return row
}

func (v *View[T]) pageCountLocked(shown int) int {
	if shown == 0 {
		return 1
	}
	return (shown + v.pageSize - 1) / v.pageSize
}

// indexLocked returns the positions of the filtered, sorted records. The
// returned slice is shared with the memo and must not be modified.
func (v *View[T]) indexLocked() []int {
	key := strconv.FormatUint(v.version, 10) + "|" + v.filters.cacheKey() + "|" + v.sort.cacheKey()
	if idx, ok := v.memo.get(key); ok {
		return idx
	}

	m := newMatcher(v.filters, v.cfg.Columns, v.cfg.Filters)
	idx := make([]int, 0, len(v.records))
	for i, r := range v.records {
		if m.match(r) {
			idx = append(idx, i)
		}
	}

	if len(v.sort) > 0 {
		if ci, ok := v.columns[v.sort[0].Column]; ok {
			col := v.cfg.Columns[ci]
			desc := v.sort[0].Desc
			values := make(map[int]any, len(idx))
			for _, i := range idx {
				values[i] = sortValue(col, v.records[i])
			}
			slices.SortStableFunc(idx, func(a, b int) int {
				va, vb := values[a], values[b]
				c := compareValues(va, vb)
				if desc && va != nil && vb != nil {
					return -c
				}
				return c
			})
		}
	}

	v.memo.add(key, idx)
	return idx
}

func sortValue[T any](c Column[T], record T) any {
	if c.SortValue == nil {
		return c.Renderer.Cell(record).Text
	}
	switch x := c.SortValue(record).(type) {
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case *string:
		if x == nil {
			return nil
		}
		return *x
	default:
		return x
	}
}
