package reports

import (
	"strconv"
	"time"

	"assetdesk/internal/lookup"
	"assetdesk/internal/models"
)

// Entity names, used as file prefixes and route parameters.
const (
	EntityAssets       = "assets"
	EntityMaintenances = "maintenances"
	EntityTransfers    = "transfers"
)

// Entities lists every reportable entity.
var Entities = []string{EntityAssets, EntityMaintenances, EntityTransfers}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// MaintenanceReport groups by kind; the category selector is the kind.
func MaintenanceReport() Definition[models.MaintenanceEvent] {
	return Definition[models.MaintenanceEvent]{
		Entity: EntityMaintenances,
		Title:  "Maintenance Report",
		Sheet:  "Maintenances",
		Columns: []Column[models.MaintenanceEvent]{
			{Header: "Date", Width: 22, Value: func(m models.MaintenanceEvent, _ *lookup.Index) string { return formatDate(m.PerformedAt) }},
			{Header: "Asset", Width: 45, Value: func(m models.MaintenanceEvent, l *lookup.Index) string { return l.Asset(m.AssetID) }},
			{Header: "Type", Width: 22, Value: func(m models.MaintenanceEvent, _ *lookup.Index) string { return m.Kind }},
			{Header: "Description", Width: 90, MaxChars: 70, Value: func(m models.MaintenanceEvent, _ *lookup.Index) string { return m.Description }},
			{Header: "Responsible", Width: 60, MaxChars: 45, Value: func(m models.MaintenanceEvent, l *lookup.Index) string { return l.Users(m.ResponsibleIDs) }},
		},
		DateOf:      func(m models.MaintenanceEvent) time.Time { return m.PerformedAt },
		CategoryOf:  func(m models.MaintenanceEvent) string { return m.Kind },
		GroupHeader: "Type",
		GroupOf:     func(m models.MaintenanceEvent, _ *lookup.Index) string { return m.Kind },
	}
}

// TransferReport groups by destination site; the category selector is the
// destination site id.
func TransferReport() Definition[models.Transfer] {
	return Definition[models.Transfer]{
		Entity: EntityTransfers,
		Title:  "Transfer Report",
		Sheet:  "Transfers",
		Columns: []Column[models.Transfer]{
			{Header: "Date", Width: 22, Value: func(t models.Transfer, _ *lookup.Index) string { return formatDate(t.TransferredAt) }},
			{Header: "Asset", Width: 45, Value: func(t models.Transfer, l *lookup.Index) string { return l.Asset(t.AssetID) }},
			{Header: "Origin", Width: 35, Value: func(t models.Transfer, l *lookup.Index) string { return l.Site(t.OriginSiteID) }},
			{Header: "Destination", Width: 35, Value: func(t models.Transfer, l *lookup.Index) string { return l.Site(t.DestinationSiteID) }},
			{Header: "Requested by", Width: 40, Value: func(t models.Transfer, l *lookup.Index) string { return l.User(t.RequestedBy) }},
			{Header: "Reason", Width: 80, MaxChars: 50, Value: func(t models.Transfer, _ *lookup.Index) string { return t.Reason }},
		},
		DateOf:      func(t models.Transfer) time.Time { return t.TransferredAt },
		CategoryOf:  func(t models.Transfer) string { return strconv.FormatInt(t.DestinationSiteID, 10) },
		GroupHeader: "Destination",
		GroupOf:     func(t models.Transfer, l *lookup.Index) string { return l.Site(t.DestinationSiteID) },
	}
}

// AssetReport groups by category and filters dates on registration.
func AssetReport() Definition[models.Asset] {
	return Definition[models.Asset]{
		Entity: EntityAssets,
		Title:  "Asset Inventory Report",
		Sheet:  "Assets",
		Columns: []Column[models.Asset]{
			{Header: "Tag", Width: 25, Value: func(a models.Asset, _ *lookup.Index) string { return a.Tag }},
			{Header: "Serial", Width: 30, Value: func(a models.Asset, _ *lookup.Index) string { return a.Serial }},
			{Header: "Category", Width: 25, Value: func(a models.Asset, _ *lookup.Index) string { return a.Category }},
			{Header: "Site", Width: 35, Value: func(a models.Asset, l *lookup.Index) string { return l.SiteRef(a.SiteID) }},
			{Header: "Condition", Width: 20, Value: func(a models.Asset, _ *lookup.Index) string { return a.Condition }},
			{Header: "Custodian", Width: 40, Value: func(a models.Asset, l *lookup.Index) string { return l.UserRef(a.CustodianID) }},
			{Header: "Registered", Width: 22, Value: func(a models.Asset, _ *lookup.Index) string { return formatDate(a.RegisteredAt) }},
			{Header: "Description", Width: 60, MaxChars: 40, Value: func(a models.Asset, _ *lookup.Index) string { return a.Description }},
		},
		DateOf:      func(a models.Asset) time.Time { return a.RegisteredAt },
		CategoryOf:  func(a models.Asset) string { return a.Category },
		GroupHeader: "Category",
		GroupOf:     func(a models.Asset, _ *lookup.Index) string { return a.Category },
	}
}
