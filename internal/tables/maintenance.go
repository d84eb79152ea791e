package tables

import (
	"assetdesk/internal/models"
	"assetdesk/internal/tableview"
)

var kindVariants = map[string]string{
	models.MaintenanceKindPreventive: "info",
	models.MaintenanceKindCorrective: "warning",
}

// Maintenance builds the maintenance log table, newest first. Its filters
// are not persisted.
func Maintenance(records []models.MaintenanceEvent, lookups Lookups, opts Options) *tableview.View[models.MaintenanceEvent] {
	cfg := tableview.Config[models.MaintenanceEvent]{
		Name: MaintenanceTable,
		Columns: []tableview.Column[models.MaintenanceEvent]{
			{
				Key: "asset",
				Renderer: tableview.LookupColumn[models.MaintenanceEvent]{
					Label:   "Asset",
					Resolve: func(m models.MaintenanceEvent) string { return lookups().Asset(m.AssetID) },
				},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key:        "performed_at",
				Renderer:   tableview.TextColumn[models.MaintenanceEvent]{Label: "Date", Value: func(m models.MaintenanceEvent) string { return formatDate(m.PerformedAt) }},
				SortValue:  func(m models.MaintenanceEvent) any { return m.PerformedAt },
				Searchable: true,
				Sortable:   true,
			},
			{
				Key: "kind",
				Renderer: tableview.BadgeColumn[models.MaintenanceEvent]{
					Label:    "Type",
					Value:    func(m models.MaintenanceEvent) string { return m.Kind },
					Variants: kindVariants,
				},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key:        "description",
				Renderer:   tableview.TextColumn[models.MaintenanceEvent]{Label: "Description", Value: func(m models.MaintenanceEvent) string { return m.Description }},
				Searchable: true,
				Hideable:   true,
			},
			{
				Key: "responsibles",
				Renderer: tableview.LookupColumn[models.MaintenanceEvent]{
					Label:   "Responsible",
					Resolve: func(m models.MaintenanceEvent) string { return lookups().Users(m.ResponsibleIDs) },
				},
				Searchable: true,
				Hideable:   true,
			},
			{
				Key: "actions",
				Renderer: tableview.ActionColumn[models.MaintenanceEvent]{
					Label:   "Actions",
					Actions: func(models.MaintenanceEvent) []string { return []string{"view", "edit", "delete"} },
				},
			},
		},
		Filters: []tableview.FilterDef[models.MaintenanceEvent]{
			{Key: "kind", Value: func(m models.MaintenanceEvent) string { return m.Kind }, Options: models.MaintenanceKinds},
			{Key: "asset", Value: func(m models.MaintenanceEvent) string { return formatID(m.AssetID) }},
			{Key: "from", Match: func(m models.MaintenanceEvent, v string) bool { return onOrAfter(m.PerformedAt, v) }},
			{Key: "to", Match: func(m models.MaintenanceEvent, v string) bool { return onOrBefore(m.PerformedAt, v) }},
		},
		RowKey:      func(m models.MaintenanceEvent) string { return formatID(m.ID) },
		PageSize:    opts.PageSize,
		DefaultSort: tableview.SortState{{Column: "performed_at", Desc: true}},
		MemoSize:    opts.MemoSize,
		Logger:      opts.Logger,
	}
	return tableview.New(cfg, records)
}
