package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"assetdesk/internal/reports"
)

var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetdesk_exports_total",
		Help: "Report exports, by format and outcome.",
	}, []string{"format", "outcome"})
	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assetdesk_export_duration_seconds",
		Help:    "Time spent building report artifacts.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
)

var ErrUnknownEntity = errors.New("unknown report entity")

type ReportRequest struct {
	Entity      string
	Format      reports.Format
	Criteria    reports.Criteria
	RequestedBy string
	Archive     bool
}

// ReportResult is a generated artifact and, when archived, where it lives.
type ReportResult struct {
	*reports.Artifact
	ArchiveKey string `json:"archive_key,omitempty"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

type ReportArchiveConfig struct {
	Bucket    string
	URLExpiry time.Duration
}

type ReportService interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResult, error)
}

type reportService struct {
	datasets DatasetService
	minio    MinioService
	archive  ReportArchiveConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService builds the export service. minioSvc may be nil, in which
// case archive requests are ignored.
func NewReportService(datasets DatasetService, minioSvc MinioService, archive ReportArchiveConfig, logger *zap.Logger) ReportService {
	return &reportService{
		datasets: datasets,
		minio:    minioSvc,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *reportService) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	start := time.Now()
	d := s.datasets.Snapshot()
	meta := reports.Meta{
		GeneratedAt: s.now(),
		RequestedBy: req.RequestedBy,
		Criteria:    req.Criteria,
	}

	var (
		artifact *reports.Artifact
		err      error
	)
	switch req.Entity {
	case reports.EntityMaintenances:
		artifact, err = reports.Build(reports.MaintenanceReport(), d.Maintenance, req.Format, d.Lookups, meta)
	case reports.EntityTransfers:
		artifact, err = reports.Build(reports.TransferReport(), d.Transfers, req.Format, d.Lookups, meta)
	case reports.EntityAssets:
		artifact, err = reports.Build(reports.AssetReport(), d.Assets, req.Format, d.Lookups, meta)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownEntity, req.Entity)
	}
	exportDuration.WithLabelValues(string(req.Format)).Observe(time.Since(start).Seconds())

	if err != nil {
		exportsTotal.WithLabelValues(string(req.Format), outcomeOf(err)).Inc()
		if errors.Is(err, reports.ErrDocumentGeneration) || errors.Is(err, reports.ErrWorkbookGeneration) {
			s.logger.Error("report generation failed", zap.String("entity", req.Entity), zap.String("format", string(req.Format)), zap.Error(err))
		}
		return nil, err
	}
	exportsTotal.WithLabelValues(string(req.Format), "success").Inc()
	s.logger.Info("report generated",
		zap.String("entity", req.Entity),
		zap.String("file", artifact.FileName),
		zap.Int("records", artifact.Records),
		zap.String("requested_by", req.RequestedBy),
	)

	result := &ReportResult{Artifact: artifact}
	if req.Archive {
		s.store(ctx, result, meta.GeneratedAt)
	}
	return result, nil
}

// store uploads the artifact. Failures leave the result without archive
// fields; the artifact itself is still returned to the caller.
func (s *reportService) store(ctx context.Context, result *ReportResult, at time.Time) {
	if s.minio == nil || s.archive.Bucket == "" {
		return
	}
	key := ArchiveKey(at, result.FileName)
	if err := s.minio.Upload(ctx, s.archive.Bucket, key, bytes.NewReader(result.Data), int64(len(result.Data)), result.ContentType); err != nil {
		s.logger.Warn("failed to archive report", zap.String("key", key), zap.Error(err))
		return
	}
	result.ArchiveKey = key

	if s.archive.URLExpiry > 0 {
		url, err := s.minio.GetPresignedURL(ctx, s.archive.Bucket, key, s.archive.URLExpiry)
		if err != nil {
			s.logger.Warn("failed to presign archived report", zap.String("key", key), zap.Error(err))
			return
		}
		result.ArchiveURL = url
	}
}

// ArchiveKey places artifacts under reports/<yyyy>/<mm>/.
func ArchiveKey(at time.Time, fileName string) string {
	return fmt.Sprintf("reports/%04d/%02d/%s", at.Year(), int(at.Month()), fileName)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, reports.ErrNoMatches):
		return "no_matches"
	case errors.Is(err, reports.ErrInvalidPeriod),
		errors.Is(err, reports.ErrUnsupportedFormat),
		errors.Is(err, ErrUnknownEntity):
		return "invalid"
	default:
		return "error"
	}
}
