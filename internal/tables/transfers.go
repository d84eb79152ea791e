package tables

import (
	"assetdesk/internal/models"
	"assetdesk/internal/tableview"
)

// reasonWidth is the number of characters of the reason shown in the table.
const reasonWidth = 60

// Transfers builds the transfer history table. Its filters are not persisted.
func Transfers(records []models.Transfer, lookups Lookups, opts Options) *tableview.View[models.Transfer] {
	cfg := tableview.Config[models.Transfer]{
		Name: TransfersTable,
		Columns: []tableview.Column[models.Transfer]{
			{
				Key: "asset",
				Renderer: tableview.LookupColumn[models.Transfer]{
					Label:   "Asset",
					Resolve: func(t models.Transfer) string { return lookups().Asset(t.AssetID) },
				},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key:       "transferred_at",
				Renderer:  tableview.TextColumn[models.Transfer]{Label: "Date", Value: func(t models.Transfer) string { return formatDate(t.TransferredAt) }},
				SortValue: func(t models.Transfer) any { return t.TransferredAt },
				Sortable:  true,
			},
			{
				Key: "origin",
				Renderer: tableview.LookupColumn[models.Transfer]{
					Label:   "Origin",
					Resolve: func(t models.Transfer) string { return lookups().Site(t.OriginSiteID) },
				},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key: "destination",
				Renderer: tableview.LookupColumn[models.Transfer]{
					Label:   "Destination",
					Resolve: func(t models.Transfer) string { return lookups().Site(t.DestinationSiteID) },
				},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key: "requested_by",
				Renderer: tableview.LookupColumn[models.Transfer]{
					Label:   "Requested by",
					Resolve: func(t models.Transfer) string { return lookups().User(t.RequestedBy) },
				},
				Searchable: true,
				Sortable:   true,
				Hideable:   true,
			},
			{
				Key: "reason",
				Renderer: tableview.TextColumn[models.Transfer]{Label: "Reason", Value: func(t models.Transfer) string {
					return truncate(t.Reason, reasonWidth)
				}},
				Searchable: true,
				Hideable:   true,
			},
		},
		Filters: []tableview.FilterDef[models.Transfer]{
			{Key: "origin", Value: func(t models.Transfer) string { return formatID(t.OriginSiteID) }},
			{Key: "destination", Value: func(t models.Transfer) string { return formatID(t.DestinationSiteID) }},
		},
		RowKey:      func(t models.Transfer) string { return formatID(t.ID) },
		PageSize:    opts.PageSize,
		DefaultSort: tableview.SortState{{Column: "transferred_at", Desc: true}},
		MemoSize:    opts.MemoSize,
		Logger:      opts.Logger,
	}
	return tableview.New(cfg, records)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
