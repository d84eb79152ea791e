package tables

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assetdesk/internal/lookup"
	"assetdesk/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func int64Ptr(v int64) *int64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtures() ([]models.Asset, []models.User, []models.Site) {
	assets := []models.Asset{
		{ID: 1, Tag: "PC-001", Serial: "SN1", Category: models.AssetCategoryComputer, Condition: models.AssetConditionGood, SiteID: int64Ptr(10), CustodianID: int64Ptr(100)},
		{ID: 2, Tag: "PR-001", Serial: "SN2", Category: models.AssetCategoryPrinter, Condition: models.AssetConditionPoor, SiteID: int64Ptr(20)},
		{ID: 3, Tag: "SW-001", Category: models.AssetCategoryNetwork, Condition: models.AssetConditionGood, SiteID: int64Ptr(99)},
	}
	users := []models.User{{ID: 100, FirstName: "Ana", LastName: "Ruiz"}}
	sites := []models.Site{{ID: 10, Name: "Central"}, {ID: 20, Name: "Norte"}}
	return assets, users, sites
}

func fixtureLookups() Lookups {
	idx := lookup.New(fixtures())
	return func() *lookup.Index { return idx }
}

func TestInventory_PersistsUnderUserKey(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	key := "assetdesk:filters:" + userID.String() + ":inventoryTable"

	store := new(MockStore)
	store.On("GetString", ctx, key).Return(`{"globalFilter":"","category":"impresora","condition":"","site":""}`, nil)
	store.On("SetString", ctx, key, `{"category":"impresora","condition":"","globalFilter":"","site":"20"}`, time.Duration(0)).Return(nil)

	assets, _, _ := fixtures()
	view := Inventory(assets, fixtureLookups(), Options{UserID: userID, Store: store})
	view.Load(ctx)

	page := view.Render()
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "2", page.Rows[0].Key)

	require.NoError(t, view.SetFilter(ctx, "site", "20"))
	assert.Equal(t, 1, view.Render().Shown)
	store.AssertExpectations(t)
}

func TestInventory_ResolvesLookups(t *testing.T) {
	ctx := context.Background()
	assets, _, _ := fixtures()
	view := Inventory(assets, fixtureLookups(), Options{})
	view.Load(ctx)

	page := view.Render()
	require.Len(t, page.Rows, 3)
	cells := map[string]string{}
	for i, c := range page.Columns {
		cells[c.Key] = page.Rows[2].Cells[i].Text
	}
	assert.Equal(t, "ID: 99", cells["site"])
	assert.Equal(t, "N/A", cells["custodian"])

	view.SetGlobalFilter(ctx, "ruiz")
	assert.Equal(t, 1, view.Render().Shown)

	view.SetGlobalFilter(ctx, "central")
	assert.Equal(t, []int64{1}, assetIDs(view.Visible()))
}

func assetIDs(assets []models.Asset) []int64 {
	out := make([]int64, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestMaintenance_DateBoundsAndDefaultSort(t *testing.T) {
	ctx := context.Background()
	records := []models.MaintenanceEvent{
		{ID: 1, AssetID: 1, PerformedAt: day("2025-01-05 09:00"), Kind: models.MaintenanceKindPreventive},
		{ID: 2, AssetID: 2, PerformedAt: day("2025-01-31 18:30"), Kind: models.MaintenanceKindCorrective, ResponsibleIDs: []int64{100, 7}},
		{ID: 3, AssetID: 1, PerformedAt: day("2025-02-10 08:00"), Kind: models.MaintenanceKindPreventive},
	}
	view := Maintenance(records, fixtureLookups(), Options{})
	view.Load(ctx)

	ids := func() []int64 {
		var out []int64
		for _, m := range view.Visible() {
			out = append(out, m.ID)
		}
		return out
	}
	assert.Equal(t, []int64{3, 2, 1}, ids())

	require.NoError(t, view.SetFilter(ctx, "to", "2025-01-31"))
	assert.Equal(t, []int64{2, 1}, ids())

	require.NoError(t, view.SetFilter(ctx, "from", "2025-01-31"))
	assert.Equal(t, []int64{2}, ids())

	row := view.Render().Rows[0]
	assert.Equal(t, "PR-001 - SN2", row.Cells[0].Text)
	assert.Equal(t, "Ana Ruiz, ID: 7", row.Cells[4].Text)

	view.ResetFilters(ctx)
	require.NoError(t, view.SetFilter(ctx, "kind", "PREVENTIVO"))
	assert.Equal(t, []int64{3, 1}, ids())
}

func TestTransfers_FiltersAndTruncation(t *testing.T) {
	ctx := context.Background()
	long := "Equipo reasignado al area de contabilidad por cierre temporal de la sucursal norte"
	records := []models.Transfer{
		{ID: 1, AssetID: 1, TransferredAt: day("2025-03-01 10:00"), OriginSiteID: 10, DestinationSiteID: 20, RequestedBy: 100, Reason: long},
		{ID: 2, AssetID: 3, TransferredAt: day("2025-03-02 10:00"), OriginSiteID: 20, DestinationSiteID: 10, RequestedBy: 5},
	}
	view := Transfers(records, fixtureLookups(), Options{})
	view.Load(ctx)

	require.NoError(t, view.SetFilter(ctx, "destination", "20"))
	page := view.Render()
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Central", page.Rows[0].Cells[2].Text)
	assert.Equal(t, "Norte", page.Rows[0].Cells[3].Text)
	reason := page.Rows[0].Cells[5].Text
	assert.Len(t, []rune(reason), reasonWidth)
	assert.True(t, len(reason) < len(long))
	assert.Equal(t, "...", reason[len(reason)-3:])

	require.NoError(t, view.SetFilter(ctx, "destination", ""))
	require.NoError(t, view.SetFilter(ctx, "origin", "20"))
	page = view.Render()
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "ID: 5", page.Rows[0].Cells[4].Text)
}
