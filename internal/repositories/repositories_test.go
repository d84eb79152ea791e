package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"assetdesk/internal/models"
)

func int64Ptr(v int64) *int64    { return &v }
func stringPtr(s string) *string { return &s }

type RepositoryTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	context context.Context
}

func (suite *RepositoryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.context = context.Background()
}

func (suite *RepositoryTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) TestAssetList_Success() {
	registered := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "tag", "serial", "category", "description", "site_id", "condition", "custodian_id", "registered_at"}).
		AddRow(int64(1), "PC-001", "SN1", models.AssetCategoryComputer, "Laptop", int64Ptr(3), models.AssetConditionGood, int64Ptr(7), registered).
		AddRow(int64(2), "PR-001", "", models.AssetCategoryPrinter, "", nil, models.AssetConditionPoor, nil, registered)
	suite.mock.ExpectQuery(`SELECT (.+) FROM assets\s+ORDER BY tag`).WillReturnRows(rows)

	assets, err := NewAssetRepository(suite.mock).List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assets, 2)
	assert.Equal(suite.T(), int64(3), *assets[0].SiteID)
	assert.Equal(suite.T(), int64(7), *assets[0].CustodianID)
	assert.Nil(suite.T(), assets[1].SiteID)
	assert.Nil(suite.T(), assets[1].CustodianID)
	assert.Equal(suite.T(), registered, assets[1].RegisteredAt)
}

func (suite *RepositoryTestSuite) TestAssetList_QueryError() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM assets`).WillReturnError(errors.New("connection reset"))

	assets, err := NewAssetRepository(suite.mock).List(suite.context)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), assets)
}

func (suite *RepositoryTestSuite) TestAssetGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM assets\s+WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	asset, err := NewAssetRepository(suite.mock).GetByID(suite.context, 42)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), asset)
}

func (suite *RepositoryTestSuite) TestMaintenanceList_Success() {
	performed := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "asset_id", "performed_at", "kind", "description", "responsible_ids"}).
		AddRow(int64(5), int64(1), performed, models.MaintenanceKindPreventive, "Limpieza", []int64{7, 9}).
		AddRow(int64(6), int64(2), performed, models.MaintenanceKindCorrective, "", []int64{})
	suite.mock.ExpectQuery(`SELECT (.+) FROM maintenances m\s+LEFT JOIN maintenance_responsibles mr`).WillReturnRows(rows)

	events, err := NewMaintenanceRepository(suite.mock).List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), events, 2)
	assert.Equal(suite.T(), []int64{7, 9}, events[0].ResponsibleIDs)
	assert.Empty(suite.T(), events[1].ResponsibleIDs)
}

func (suite *RepositoryTestSuite) TestTransferList_Success() {
	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "asset_id", "transferred_at", "origin_site_id", "destination_site_id", "requested_by", "reason"}).
		AddRow(int64(1), int64(4), at, int64(1), int64(2), int64(7), "Reubicacion")
	suite.mock.ExpectQuery(`SELECT (.+) FROM transfers`).WillReturnRows(rows)

	transfers, err := NewTransferRepository(suite.mock).List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []models.Transfer{{
		ID: 1, AssetID: 4, TransferredAt: at, OriginSiteID: 1, DestinationSiteID: 2, RequestedBy: 7, Reason: "Reubicacion",
	}}, transfers)
}

func (suite *RepositoryTestSuite) TestTransferList_RowError() {
	rows := pgxmock.NewRows([]string{"id", "asset_id", "transferred_at", "origin_site_id", "destination_site_id", "requested_by", "reason"}).
		AddRow(int64(1), int64(4), time.Now(), int64(1), int64(2), int64(7), "").
		RowError(0, errors.New("canceling statement due to statement timeout"))
	suite.mock.ExpectQuery(`SELECT (.+) FROM transfers`).WillReturnRows(rows)

	_, err := NewTransferRepository(suite.mock).List(suite.context)
	assert.Error(suite.T(), err)
}

func (suite *RepositoryTestSuite) TestSiteList_Success() {
	rows := pgxmock.NewRows([]string{"id", "name", "address"}).
		AddRow(int64(1), "Central", stringPtr("Av. Principal 100")).
		AddRow(int64(2), "Norte", nil)
	suite.mock.ExpectQuery(`SELECT id, name, address FROM sites ORDER BY name`).WillReturnRows(rows)

	sites, err := NewSiteRepository(suite.mock).List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), sites, 2)
	assert.Equal(suite.T(), "Av. Principal 100", *sites[0].Address)
	assert.Nil(suite.T(), sites[1].Address)
}

func (suite *RepositoryTestSuite) TestUserList_Success() {
	rows := pgxmock.NewRows([]string{"id", "first_name", "last_name", "email", "role"}).
		AddRow(int64(7), "Ana", "Ruiz", "ana@example.com", "admin")
	suite.mock.ExpectQuery(`SELECT (.+) FROM users\s+ORDER BY`).WillReturnRows(rows)

	users, err := NewUserRepo(suite.mock).List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []models.User{{ID: 7, FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Role: "admin"}}, users)
}

func (suite *RepositoryTestSuite) TestUserGetByEmail_Success() {
	rows := pgxmock.NewRows([]string{"id", "first_name", "last_name", "email", "role"}).
		AddRow(int64(7), "Ana", "Ruiz", "ana@example.com", "admin")
	suite.mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	user, err := NewUserRepo(suite.mock).GetByEmail(suite.context, "ana@example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ana Ruiz", user.FullName())
}
