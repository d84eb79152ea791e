package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"assetdesk/internal/reports"
	"assetdesk/internal/services"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, req services.ReportRequest) (*services.ReportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReportResult), args.Error(1)
}

type ReportArchiverTestSuite struct {
	suite.Suite
	reports  *MockReportService
	archiver *ReportArchiver
	ctx      context.Context
}

func (suite *ReportArchiverTestSuite) SetupTest() {
	suite.reports = new(MockReportService)
	suite.archiver = NewReportArchiver(suite.reports, time.UTC, zap.NewNop())
	suite.ctx = context.Background()
}

func (suite *ReportArchiverTestSuite) TearDownTest() {
	suite.reports.AssertExpectations(suite.T())
}

func TestReportArchiverTestSuite(t *testing.T) {
	suite.Run(t, new(ReportArchiverTestSuite))
}

func (suite *ReportArchiverTestSuite) task(p ReportArchivePayload) *asynq.Task {
	task, err := NewReportArchiveTask(p)
	require.NoError(suite.T(), err)
	return task
}

func (suite *ReportArchiverTestSuite) TestHandle_ArchivesReport() {
	p := ReportArchivePayload{Entity: reports.EntityMaintenances, Format: "xlsx", Start: "2025-03-01", End: "2025-03-01", Category: "all"}
	suite.reports.On("Generate", suite.ctx, mock.MatchedBy(func(req services.ReportRequest) bool {
		return req.Entity == reports.EntityMaintenances &&
			req.Format == reports.FormatXLSX &&
			req.Archive &&
			req.RequestedBy == ArchiveRequester &&
			req.Criteria.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			req.Criteria.End.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			req.Criteria.Category == "all"
	})).Return(&services.ReportResult{
		Artifact:   &reports.Artifact{FileName: "maintenances_1.xlsx", Records: 4},
		ArchiveKey: "reports/2025/03/maintenances_1.xlsx",
	}, nil).Once()

	err := suite.archiver.HandleReportArchive(suite.ctx, suite.task(p))
	assert.NoError(suite.T(), err)
}

func (suite *ReportArchiverTestSuite) TestHandle_NoMatchesIsSkipped() {
	p := ReportArchivePayload{Entity: reports.EntityTransfers, Format: "pdf", Start: "2025-03-01", End: "2025-03-01"}
	suite.reports.On("Generate", suite.ctx, mock.Anything).Return(nil, reports.ErrNoMatches).Once()

	err := suite.archiver.HandleReportArchive(suite.ctx, suite.task(p))
	assert.NoError(suite.T(), err)
}

func (suite *ReportArchiverTestSuite) TestHandle_UploadMissingIsRetried() {
	p := ReportArchivePayload{Entity: reports.EntityTransfers, Format: "pdf"}
	suite.reports.On("Generate", suite.ctx, mock.Anything).Return(&services.ReportResult{
		Artifact: &reports.Artifact{FileName: "transfers_1.pdf"},
	}, nil).Once()

	err := suite.archiver.HandleReportArchive(suite.ctx, suite.task(p))
	require.Error(suite.T(), err)
	assert.False(suite.T(), errors.Is(err, asynq.SkipRetry))
}

func (suite *ReportArchiverTestSuite) TestHandle_GenerationErrorIsRetried() {
	p := ReportArchivePayload{Entity: reports.EntityTransfers, Format: "pdf"}
	suite.reports.On("Generate", suite.ctx, mock.Anything).Return(nil, reports.ErrDocumentGeneration).Once()

	err := suite.archiver.HandleReportArchive(suite.ctx, suite.task(p))
	assert.ErrorIs(suite.T(), err, reports.ErrDocumentGeneration)
}

func (suite *ReportArchiverTestSuite) TestHandle_InvalidPayloadsSkipRetry() {
	bad := []*asynq.Task{
		asynq.NewTask(TypeReportArchive, []byte("{")),
		suite.task(ReportArchivePayload{Entity: reports.EntityAssets, Format: "docx"}),
		suite.task(ReportArchivePayload{Entity: reports.EntityAssets, Format: "pdf", Start: "03/01/2025"}),
	}
	for _, task := range bad {
		err := suite.archiver.HandleReportArchive(suite.ctx, task)
		assert.ErrorIs(suite.T(), err, asynq.SkipRetry)
	}
	suite.reports.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything)
}

func (suite *ReportArchiverTestSuite) TestHandle_RejectedRequestSkipsRetry() {
	p := ReportArchivePayload{Entity: "invoices", Format: "pdf"}
	suite.reports.On("Generate", suite.ctx, mock.Anything).Return(nil, services.ErrUnknownEntity).Once()

	err := suite.archiver.HandleReportArchive(suite.ctx, suite.task(p))
	assert.ErrorIs(suite.T(), err, asynq.SkipRetry)
}

func TestNewReportArchiveTask(t *testing.T) {
	p := ReportArchivePayload{Entity: reports.EntityTransfers, Format: "pdf", Start: "2025-03-01", End: "2025-03-01"}
	task, err := NewReportArchiveTask(p)
	require.NoError(t, err)

	assert.Equal(t, TypeReportArchive, task.Type())
	var decoded ReportArchivePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, p, decoded)
}

func TestArchivePayloadsFor(t *testing.T) {
	payloads := ArchivePayloadsFor(time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC))

	require.Len(t, payloads, 2)
	assert.Equal(t, reports.EntityMaintenances, payloads[0].Entity)
	assert.Equal(t, "xlsx", payloads[0].Format)
	assert.Equal(t, reports.EntityTransfers, payloads[1].Entity)
	assert.Equal(t, "pdf", payloads[1].Format)
	for _, p := range payloads {
		assert.Equal(t, "2025-02-28", p.Start)
		assert.Equal(t, "2025-02-28", p.End)
	}
}
