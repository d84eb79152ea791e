package repositories

import (
	"context"

	"assetdesk/internal/models"
)

type MaintenanceRepository interface {
	List(ctx context.Context) ([]models.MaintenanceEvent, error)
}

type maintenanceRepo struct {
	db DBTX
}

func NewMaintenanceRepository(db DBTX) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

// List returns every maintenance event with its responsible users, newest
// first.
func (r *maintenanceRepo) List(ctx context.Context) ([]models.MaintenanceEvent, error) {
	query := `
		SELECT m.id, m.asset_id, m.performed_at, m.kind, COALESCE(m.description, ''),
			COALESCE(array_agg(mr.user_id ORDER BY mr.user_id) FILTER (WHERE mr.user_id IS NOT NULL), '{}')
		FROM maintenances m
		LEFT JOIN maintenance_responsibles mr ON mr.maintenance_id = m.id
		GROUP BY m.id
		ORDER BY m.performed_at DESC, m.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.MaintenanceEvent
	for rows.Next() {
		var m models.MaintenanceEvent
		if err := rows.Scan(&m.ID, &m.AssetID, &m.PerformedAt, &m.Kind, &m.Description, &m.ResponsibleIDs); err != nil {
			return nil, err
		}
		events = append(events, m)
	}
	return events, rows.Err()
}
