package models

import (
	"time"
)

// Maintenance kinds
const (
	MaintenanceKindPreventive = "preventivo"
	MaintenanceKindCorrective = "correctivo"
)

// MaintenanceKinds lists every valid maintenance kind.
var MaintenanceKinds = []string{MaintenanceKindPreventive, MaintenanceKindCorrective}

// MaintenanceEvent records work performed on an asset.
type MaintenanceEvent struct {
	ID             int64     `json:"id" db:"id"`
	AssetID        int64     `json:"asset_id" db:"asset_id"`
	PerformedAt    time.Time `json:"performed_at" db:"performed_at"`
	Kind           string    `json:"kind" db:"kind"`
	Description    string    `json:"description" db:"description"`
	ResponsibleIDs []int64   `json:"responsible_ids" db:"responsible_ids"`
}
