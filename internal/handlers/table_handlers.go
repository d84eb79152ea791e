package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"assetdesk/internal/common"
	"assetdesk/internal/services"
	"assetdesk/internal/tableview"
)

// TableHandlers exposes the per-session table views.
type TableHandlers struct {
	workspaces services.WorkspaceService
	datasets   services.DatasetService
	logger     *zap.Logger
}

// NewTableHandlers creates a new table handlers instance
func NewTableHandlers(workspaces services.WorkspaceService, datasets services.DatasetService, logger *zap.Logger) *TableHandlers {
	return &TableHandlers{
		workspaces: workspaces,
		datasets:   datasets,
		logger:     logger,
	}
}

// SetFilterRequest sets one filter. Key "globalFilter" sets the search box.
type SetFilterRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type PageSizeRequest struct {
	PageSize int `json:"page_size"`
}

type ColumnVisibilityRequest struct {
	Visible *bool `json:"visible"`
}

// table resolves the :table path parameter against the caller's workspace.
func (h *TableHandlers) table(c echo.Context) (tableview.Table, error) {
	ctx := c.Request().Context()
	session, ok := common.SessionFromContext(ctx)
	if !ok {
		return nil, common.SendUnauthorizedError(c)
	}
	ws := h.workspaces.Get(ctx, session)
	t, ok := ws.Table(c.Param("table"))
	if !ok {
		return nil, common.SendNotFoundError(c, "Table")
	}
	return t, nil
}

// GetTable godoc
// @Summary Render a table page
// @Tags tables
// @Produce json
// @Param table path string true "inventory, maintenance or transfers"
// @Success 200 {object} tableview.Page
// @Failure 404 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /tables/{table} [get]
func (h *TableHandlers) GetTable(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	return c.JSON(http.StatusOK, t.Render())
}

// ReplaceFilters godoc
// @Summary Replace every filter of a table
// @Tags tables
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param filters body object true "Flat map of filter key to value, globalFilter included"
// @Success 200 {object} tableview.Page
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /tables/{table}/filters [put]
func (h *TableHandlers) ReplaceFilters(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	var state tableview.FilterState
	if err := json.NewDecoder(c.Request().Body).Decode(&state); err != nil {
		return common.SendClientError(c, "Invalid filter state")
	}
	if err := t.SetFilters(c.Request().Context(), state); err != nil {
		return h.viewError(c, err)
	}
	return c.JSON(http.StatusOK, t.Render())
}

// SetFilter godoc
// @Summary Set a single filter
// @Tags tables
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param filter body SetFilterRequest true "Filter key and value; an empty value clears it"
// @Success 200 {object} tableview.Page
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /tables/{table}/filters [patch]
func (h *TableHandlers) SetFilter(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	var req SetFilterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	ctx := c.Request().Context()
	if req.Key == tableview.GlobalFilterKey {
		t.SetGlobalFilter(ctx, req.Value)
	} else if err := t.SetFilter(ctx, req.Key, req.Value); err != nil {
		return h.viewError(c, err)
	}
	return c.JSON(http.StatusOK, t.Render())
}

// ResetFilters godoc
// @Summary Clear every filter of a table
// @Tags tables
// @Produce json
// @Param table path string true "Table name"
// @Success 200 {object} tableview.Page
// @Security BearerAuth
// @Router /tables/{table}/filters [delete]
func (h *TableHandlers) ResetFilters(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	t.ResetFilters(c.Request().Context())
	return c.JSON(http.StatusOK, t.Render())
}

// ToggleSort godoc
// @Summary Cycle the sort of a column: ascending, descending, unsorted
// @Tags tables
// @Produce json
// @Param table path string true "Table name"
// @Param column path string true "Column key"
// @Success 200 {object} tableview.Page
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /tables/{table}/sort/{column} [post]
func (h *TableHandlers) ToggleSort(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	if err := t.ToggleSort(c.Param("column")); err != nil {
		return h.viewError(c, err)
	}
	return c.JSON(http.StatusOK, t.Render())
}

// NextPage godoc
// @Summary Move to the next page
// @Tags tables
// @Produce json
// @Param table path string true "Table name"
// @Success 200 {object} tableview.Page
// @Security BearerAuth
// @Router /tables/{table}/page/next [post]
func (h *TableHandlers) NextPage(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	t.NextPage()
	return c.JSON(http.StatusOK, t.Render())
}

// PrevPage godoc
// @Summary Move to the previous page
// @Tags tables
// @Produce json
// @Param table path string true "Table name"
// @Success 200 {object} tableview.Page
// @Security BearerAuth
// @Router /tables/{table}/page/prev [post]
func (h *TableHandlers) PrevPage(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	t.PrevPage()
	return c.JSON(http.StatusOK, t.Render())
}

// SetPageSize godoc
// @Summary Change the page size
// @Tags tables
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param body body PageSizeRequest true "New page size"
// @Success 200 {object} tableview.Page
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /tables/{table}/page-size [put]
func (h *TableHandlers) SetPageSize(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	var req PageSizeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := t.SetPageSize(req.PageSize); err != nil {
		return h.viewError(c, err)
	}
	return c.JSON(http.StatusOK, t.Render())
}

// SetColumnVisibility godoc
// @Summary Show, hide or toggle a column
// @Description Without a body the column is toggled.
// @Tags tables
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param column path string true "Column key"
// @Param body body ColumnVisibilityRequest false "Desired visibility"
// @Success 200 {object} tableview.Page
// @Failure 400 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /tables/{table}/columns/{column} [put]
func (h *TableHandlers) SetColumnVisibility(c echo.Context) error {
	t, err := h.table(c)
	if t == nil {
		return err
	}
	var req ColumnVisibilityRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return common.SendClientError(c, "Invalid request body")
		}
	}
	column := c.Param("column")
	if req.Visible == nil {
		err = t.ToggleColumn(column)
	} else {
		err = t.SetColumnVisible(column, *req.Visible)
	}
	if err != nil {
		return h.viewError(c, err)
	}
	return c.JSON(http.StatusOK, t.Render())
}

// ReloadDataset godoc
// @Summary Re-read every record from the database
// @Tags datasets
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} common.ErrorResponse
// @Security BearerAuth
// @Router /datasets/reload [post]
func (h *TableHandlers) ReloadDataset(c echo.Context) error {
	d, err := h.datasets.Reload(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to reload dataset")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":      d.Version,
		"loaded_at":    d.LoadedAt,
		"assets":       len(d.Assets),
		"maintenances": len(d.Maintenance),
		"transfers":    len(d.Transfers),
	})
}

func (h *TableHandlers) viewError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, tableview.ErrUnknownFilter):
		return common.SendValidationError(c, "filter", err.Error())
	case errors.Is(err, tableview.ErrUnknownColumn),
		errors.Is(err, tableview.ErrNotSortable),
		errors.Is(err, tableview.ErrNotHideable):
		return common.SendValidationError(c, "column", err.Error())
	case errors.Is(err, tableview.ErrInvalidPageSize):
		return common.SendValidationError(c, "page_size", err.Error())
	}
	h.logger.Error("table operation failed", zap.Error(err))
	return common.SendServerError(c, "Table operation failed")
}
