package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"assetdesk/internal/common"
	"assetdesk/internal/reports"
	"assetdesk/internal/services"
)

// ReportHandlers serves PDF and spreadsheet exports.
type ReportHandlers struct {
	reports    services.ReportService
	workspaces services.WorkspaceService
	location   *time.Location
	logger     *zap.Logger
}

// NewReportHandlers creates a new report handlers instance. Query dates are
// read as calendar days in loc.
func NewReportHandlers(reportSvc services.ReportService, workspaces services.WorkspaceService, loc *time.Location, logger *zap.Logger) *ReportHandlers {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandlers{
		reports:    reportSvc,
		workspaces: workspaces,
		location:   loc,
		logger:     logger,
	}
}

// ExportRequest represents query parameters for an export
type ExportRequest struct {
	Start    string `query:"start"`
	End      string `query:"end"`
	Category string `query:"category"`
	Archive  bool   `query:"archive"`
}

// Export godoc
// @Summary Export a report
// @Description Builds a PDF or xlsx report over the records matching the period and category.
// @Tags reports
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity path string true "assets, maintenances or transfers"
// @Param format path string true "pdf or xlsx"
// @Param start query string false "First day, YYYY-MM-DD"
// @Param end query string false "Last day, YYYY-MM-DD, inclusive"
// @Param category query string false "Category value or 'all'"
// @Param archive query bool false "Also store the artifact in object storage"
// @Success 200 {file} file
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Failure 422 {object} common.ErrorResponse
// @Failure 500 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /reports/{entity}/{format} [post]
func (h *ReportHandlers) Export(c echo.Context) error {
	ctx := c.Request().Context()
	session, ok := common.SessionFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	format, err := reports.ParseFormat(c.Param("format"))
	if err != nil {
		return common.SendValidationError(c, "format", err.Error())
	}

	// echo's Bind reads the query only for GET, DELETE and HEAD
	var req ExportRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	start, err := common.ParseDate(req.Start, "start", h.location)
	if err != nil {
		return common.SendValidationError(c, "start", err.Error())
	}
	end, err := common.ParseDate(req.End, "end", h.location)
	if err != nil {
		return common.SendValidationError(c, "end", err.Error())
	}

	ws := h.workspaces.Get(ctx, session)
	var result *services.ReportResult
	err = ws.Exports.Run(func() error {
		var genErr error
		result, genErr = h.reports.Generate(ctx, services.ReportRequest{
			Entity: c.Param("entity"),
			Format: format,
			Criteria: reports.Criteria{
				Start:    start,
				End:      end,
				Category: req.Category,
			},
			RequestedBy: session.DisplayName(),
			Archive:     req.Archive,
		})
		return genErr
	})
	if err != nil {
		return h.exportError(c, err)
	}

	if result.ArchiveKey != "" {
		c.Response().Header().Set("X-Archive-Key", result.ArchiveKey)
	}
	if result.ArchiveURL != "" {
		c.Response().Header().Set("X-Archive-Url", result.ArchiveURL)
	}
	c.Response().Header().Set("X-Record-Count", strconv.Itoa(result.Records))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.FileName))
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}

func (h *ReportHandlers) exportError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, reports.ErrExportInProgress):
		return common.SendConflictError(c, err.Error())
	case errors.Is(err, reports.ErrNoMatches):
		return common.SendNoMatchesError(c, err.Error())
	case errors.Is(err, reports.ErrInvalidPeriod):
		return common.SendValidationError(c, "start", err.Error())
	case errors.Is(err, services.ErrUnknownEntity):
		return common.SendNotFoundError(c, "Report")
	case errors.Is(err, reports.ErrUnsupportedFormat):
		return common.SendValidationError(c, "format", err.Error())
	case errors.Is(err, reports.ErrDocumentGeneration), errors.Is(err, reports.ErrWorkbookGeneration):
		return common.SendServerError(c, err.Error())
	}
	h.logger.Error("export failed", zap.Error(err))
	return common.SendServerError(c, "Export failed")
}
