package models

import (
	"time"
)

// Transfer moves an asset from one site to another.
type Transfer struct {
	ID                int64     `json:"id" db:"id"`
	AssetID           int64     `json:"asset_id" db:"asset_id"`
	TransferredAt     time.Time `json:"transferred_at" db:"transferred_at"`
	OriginSiteID      int64     `json:"origin_site_id" db:"origin_site_id"`
	DestinationSiteID int64     `json:"destination_site_id" db:"destination_site_id"`
	RequestedBy       int64     `json:"requested_by" db:"requested_by"`
	Reason            string    `json:"reason" db:"reason"`
}
