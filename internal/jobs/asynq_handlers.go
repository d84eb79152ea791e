package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"assetdesk/internal/common"
	"assetdesk/internal/reports"
	"assetdesk/internal/services"
)

// Task type definitions
const (
	TypeReportArchive = "report:archive"
)

// ArchiveRequester is stamped on artifacts built by the worker.
const ArchiveRequester = "scheduler"

// ReportArchivePayload defines the payload for report archive tasks. Dates
// are calendar days, inclusive.
type ReportArchivePayload struct {
	Entity   string `json:"entity"`
	Format   string `json:"format"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Category string `json:"category,omitempty"`
}

// NewReportArchiveTask creates a new report archive task. Tasks for the same
// entity, format and period share an id so a day is only queued once.
func NewReportArchiveTask(payload ReportArchivePayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%s:%s:%s:%s:%s", TypeReportArchive, payload.Entity, payload.Format, payload.Start, payload.End)
	opts = append([]asynq.Option{asynq.TaskID(id), asynq.MaxRetry(3)}, opts...)
	return asynq.NewTask(TypeReportArchive, data, opts...), nil
}

// ArchivePayloadsFor returns the nightly archive set covering the calendar
// day before now: the maintenance workbook and the transfer document.
func ArchivePayloadsFor(now time.Time) []ReportArchivePayload {
	day := now.AddDate(0, 0, -1).Format(common.DateLayout)
	return []ReportArchivePayload{
		{Entity: reports.EntityMaintenances, Format: string(reports.FormatXLSX), Start: day, End: day, Category: reports.AllCategories},
		{Entity: reports.EntityTransfers, Format: string(reports.FormatPDF), Start: day, End: day, Category: reports.AllCategories},
	}
}

// ReportArchiver builds reports on the worker and stores them in the archive
// bucket.
type ReportArchiver struct {
	reports  services.ReportService
	location *time.Location
	logger   *zap.Logger
}

func NewReportArchiver(reportSvc services.ReportService, loc *time.Location, logger *zap.Logger) *ReportArchiver {
	if loc == nil {
		loc = time.Local
	}
	return &ReportArchiver{
		reports:  reportSvc,
		location: loc,
		logger:   logger,
	}
}

// Register adds the archive handler to mux.
func (a *ReportArchiver) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReportArchive, a.HandleReportArchive)
}

// HandleReportArchive handles report archive tasks
func (a *ReportArchiver) HandleReportArchive(ctx context.Context, t *asynq.Task) error {
	var payload ReportArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal archive payload: %v: %w", err, asynq.SkipRetry)
	}
	logger := a.logger.With(zap.String("entity", payload.Entity), zap.String("format", payload.Format))

	req, err := a.request(payload)
	if err != nil {
		return fmt.Errorf("invalid archive payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := a.reports.Generate(ctx, req)
	switch {
	case errors.Is(err, reports.ErrNoMatches):
		logger.Info("nothing to archive", zap.String("period", payload.Start+".."+payload.End))
		return nil
	case errors.Is(err, reports.ErrInvalidPeriod),
		errors.Is(err, reports.ErrUnsupportedFormat),
		errors.Is(err, services.ErrUnknownEntity):
		return fmt.Errorf("archive task rejected: %v: %w", err, asynq.SkipRetry)
	case err != nil:
		logger.Error("archive task failed", zap.Error(err))
		return err
	}

	if result.ArchiveKey == "" {
		// the artifact was built but the upload did not happen
		return fmt.Errorf("report %s was not archived", result.FileName)
	}
	logger.Info("report archived",
		zap.String("key", result.ArchiveKey),
		zap.Int("records", result.Records),
	)
	return nil
}

func (a *ReportArchiver) request(p ReportArchivePayload) (services.ReportRequest, error) {
	format, err := reports.ParseFormat(p.Format)
	if err != nil {
		return services.ReportRequest{}, err
	}
	start, err := common.ParseDate(p.Start, "start", a.location)
	if err != nil {
		return services.ReportRequest{}, err
	}
	end, err := common.ParseDate(p.End, "end", a.location)
	if err != nil {
		return services.ReportRequest{}, err
	}
	return services.ReportRequest{
		Entity: p.Entity,
		Format: format,
		Criteria: reports.Criteria{
			Start:    start,
			End:      end,
			Category: p.Category,
		},
		RequestedBy: ArchiveRequester,
		Archive:     true,
	}, nil
}
