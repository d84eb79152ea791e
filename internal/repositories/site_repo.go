package repositories

import (
	"context"

	"assetdesk/internal/models"
)

type SiteRepository interface {
	List(ctx context.Context) ([]models.Site, error)
}

type siteRepo struct {
	db DBTX
}

func NewSiteRepository(db DBTX) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) List(ctx context.Context) ([]models.Site, error) {
	query := `SELECT id, name, address FROM sites ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Address); err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}
