package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"assetdesk/internal/services"
)

// Pinger is anything that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db       Pinger
	cache    Pinger
	minioSvc services.MinioService
	bucket   string
	datasets services.DatasetService
	version  string
	started  time.Time
	timeout  time.Duration
}

// NewHealthHandlers creates a new health handlers instance. cache and
// minioSvc may be nil when those backends are not configured.
func NewHealthHandlers(db, cache Pinger, minioSvc services.MinioService, bucket string, datasets services.DatasetService, version string) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cache:    cache,
		minioSvc: minioSvc,
		bucket:   bucket,
		datasets: datasets,
		version:  version,
		started:  time.Now(),
		timeout:  2 * time.Second,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status         string            `json:"status"`
	Timestamp      string            `json:"timestamp"`
	Services       map[string]string `json:"services"`
	Uptime         string            `json:"uptime"`
	Version        string            `json:"version"`
	DatasetVersion uint64            `json:"dataset_version"`
	Goroutines     int               `json:"goroutines"`
}

// HealthCheck godoc
// @Summary Check every backend
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	health := &HealthStatus{
		Status:         "healthy",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Services:       make(map[string]string),
		Uptime:         time.Since(h.started).Round(time.Second).String(),
		Version:        h.version,
		DatasetVersion: h.datasets.Snapshot().Version,
		Goroutines:     runtime.NumGoroutine(),
	}

	// the database is critical, the rest only degrade
	if err := h.db.Ping(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "unhealthy"
	} else {
		health.Services["database"] = "healthy"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			health.Services["redis"] = "unhealthy"
			h.degrade(health)
		} else {
			health.Services["redis"] = "healthy"
		}
	}

	if h.minioSvc != nil && h.bucket != "" {
		if found, err := h.minioSvc.BucketExists(ctx, h.bucket); err != nil || !found {
			health.Services["storage"] = "unhealthy"
			h.degrade(health)
		} else {
			health.Services["storage"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) degrade(health *HealthStatus) {
	if health.Status == "healthy" {
		health.Status = "degraded"
	}
}

// ReadinessCheck godoc
// @Summary Ready once the database answers and a dataset is loaded
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	if h.datasets.Snapshot().Version == 0 {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Dataset not loaded",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck godoc
// @Summary Basic liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
