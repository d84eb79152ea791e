// Package tables holds the column and filter layouts of the dashboard tables.
package tables

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assetdesk/internal/caching"
	"assetdesk/internal/lookup"
	"assetdesk/internal/tableview"
)

// Table names, also used as route parameters.
const (
	InventoryTable   = "inventory"
	MaintenanceTable = "maintenance"
	TransfersTable   = "transfers"
)

// InventoryStateName is the per-user namespace of the persisted inventory filters.
const InventoryStateName = "inventoryTable"

// Names lists every table in display order.
var Names = []string{InventoryTable, MaintenanceTable, TransfersTable}

const dateLayout = "2006-01-02"

// Options are shared by every table constructor.
type Options struct {
	UserID   uuid.UUID
	Store    tableview.Store
	PageSize int
	MemoSize int
	// StateTTL bounds persisted filter state; zero keeps it indefinitely.
	StateTTL time.Duration
	Logger   *zap.Logger
}

// Lookups returns the current foreign key index. It is called on every
// render so reloaded lookup collections are picked up.
type Lookups func() *lookup.Index

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatRef(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

// onOrAfter and onOrBefore compare calendar days. Unparseable bounds impose
// no constraint.
func onOrAfter(t time.Time, value string) bool {
	bound, err := time.ParseInLocation(dateLayout, value, t.Location())
	if err != nil {
		return true
	}
	return !t.Before(bound)
}

func onOrBefore(t time.Time, value string) bool {
	bound, err := time.ParseInLocation(dateLayout, value, t.Location())
	if err != nil {
		return true
	}
	return t.Before(bound.AddDate(0, 0, 1))
}

func persistence(opts Options, name string) *tableview.Persistence {
	if opts.Store == nil || opts.UserID == uuid.Nil {
		return nil
	}
	return &tableview.Persistence{Store: opts.Store, Key: caching.FilterStateKey(opts.UserID, name), TTL: opts.StateTTL}
}
