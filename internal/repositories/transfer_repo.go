package repositories

import (
	"context"

	"assetdesk/internal/models"
)

type TransferRepository interface {
	List(ctx context.Context) ([]models.Transfer, error)
}

type transferRepo struct {
	db DBTX
}

func NewTransferRepository(db DBTX) TransferRepository {
	return &transferRepo{db: db}
}

func (r *transferRepo) List(ctx context.Context) ([]models.Transfer, error) {
	query := `
		SELECT id, asset_id, transferred_at, origin_site_id, destination_site_id, requested_by, COALESCE(reason, '')
		FROM transfers
		ORDER BY transferred_at DESC, id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.ID, &t.AssetID, &t.TransferredAt, &t.OriginSiteID, &t.DestinationSiteID, &t.RequestedBy, &t.Reason); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
