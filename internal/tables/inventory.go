package tables

import (
	"assetdesk/internal/models"
	"assetdesk/internal/tableview"
)

var conditionVariants = map[string]string{
	models.AssetConditionNew:  "success",
	models.AssetConditionGood: "info",
	models.AssetConditionFair: "warning",
	models.AssetConditionPoor: "danger",
}

var categoryVariants = map[string]string{
	models.AssetCategoryComputer: "primary",
	models.AssetCategoryPrinter:  "secondary",
	models.AssetCategoryNetwork:  "info",
}

// Inventory builds the asset table. It is the only table whose filters are
// persisted.
func Inventory(records []models.Asset, lookups Lookups, opts Options) *tableview.View[models.Asset] {
	cfg := tableview.Config[models.Asset]{
		Name: InventoryTable,
		Columns: []tableview.Column[models.Asset]{
			{
				Key:        "tag",
				Renderer:   tableview.TextColumn[models.Asset]{Label: "Tag", Value: func(a models.Asset) string { return a.Tag }},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key:        "serial",
				Renderer:   tableview.TextColumn[models.Asset]{Label: "Serial", Value: func(a models.Asset) string { return a.Serial }},
				Searchable: true,
				Sortable:   true,
				Hideable:   true,
			},
			{
				Key: "category",
				Renderer: tableview.BadgeColumn[models.Asset]{
					Label:    "Category",
					Value:    func(a models.Asset) string { return a.Category },
					Variants: categoryVariants,
				},
				Searchable: true,
				Sortable:   true,
				Hideable:   true,
			},
			{
				Key:        "description",
				Renderer:   tableview.TextColumn[models.Asset]{Label: "Description", Value: func(a models.Asset) string { return a.Description }},
				Searchable: true,
				Hideable:   true,
			},
			{
				Key: "site",
				Renderer: tableview.LookupColumn[models.Asset]{
					Label:   "Site",
					Resolve: func(a models.Asset) string { return lookups().SiteRef(a.SiteID) },
				},
				Searchable: true,
				Sortable:   true,
				Hideable:   true,
			},
			{
				Key: "condition",
				Renderer: tableview.BadgeColumn[models.Asset]{
					Label:    "Condition",
					Value:    func(a models.Asset) string { return a.Condition },
					Variants: conditionVariants,
				},
				Searchable: true,
				Sortable:   true,
			},
			{
				Key: "custodian",
				Renderer: tableview.LookupColumn[models.Asset]{
					Label:   "Custodian",
					Resolve: func(a models.Asset) string { return lookups().UserRef(a.CustodianID) },
				},
				Searchable: true,
				Sortable:   true,
				Hideable:   true,
			},
			{
				Key:       "registered_at",
				Renderer:  tableview.TextColumn[models.Asset]{Label: "Registered", Value: func(a models.Asset) string { return formatDate(a.RegisteredAt) }},
				SortValue: func(a models.Asset) any { return a.RegisteredAt },
				Sortable:  true,
				Hideable:  true,
			},
			{
				Key: "actions",
				Renderer: tableview.ActionColumn[models.Asset]{
					Label: "Actions",
					Actions: func(models.Asset) []string {
						return []string{"view", "edit", "transfer", "maintenance", "delete"}
					},
				},
			},
		},
		Filters: []tableview.FilterDef[models.Asset]{
			{Key: "category", Value: func(a models.Asset) string { return a.Category }, Options: models.AssetCategories},
			{Key: "condition", Value: func(a models.Asset) string { return a.Condition }, Options: models.AssetConditions},
			{Key: "site", Value: func(a models.Asset) string { return formatRef(a.SiteID) }},
		},
		RowKey:      func(a models.Asset) string { return formatID(a.ID) },
		PageSize:    opts.PageSize,
		Persistence: persistence(opts, InventoryStateName),
		MemoSize:    opts.MemoSize,
		Logger:      opts.Logger,
	}
	return tableview.New(cfg, records)
}
