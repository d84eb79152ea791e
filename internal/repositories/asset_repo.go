package repositories

import (
	"context"

	"assetdesk/internal/models"
)

type AssetRepository interface {
	List(ctx context.Context) ([]models.Asset, error)
	GetByID(ctx context.Context, id int64) (*models.Asset, error)
}

type assetRepo struct {
	db DBTX
}

func NewAssetRepository(db DBTX) AssetRepository {
	return &assetRepo{db: db}
}

const assetColumns = `id, tag, COALESCE(serial, ''), category, COALESCE(description, ''), site_id, condition, custodian_id, registered_at`

func (r *assetRepo) List(ctx context.Context) ([]models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		ORDER BY tag
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.ID, &a.Tag, &a.Serial, &a.Category, &a.Description, &a.SiteID, &a.Condition, &a.CustodianID, &a.RegisteredAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *assetRepo) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1
	`
	a := &models.Asset{}
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Tag, &a.Serial, &a.Category, &a.Description, &a.SiteID, &a.Condition, &a.CustodianID, &a.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
