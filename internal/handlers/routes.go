package handlers

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "assetdesk/docs"
	"assetdesk/internal/middleware"
)

// Routes bundles everything the HTTP surface is built from.
type Routes struct {
	Health       *HealthHandlers
	Tables       *TableHandlers
	Reports      *ReportHandlers
	JWTSecret    string
	BuildVersion string
	Logger       *zap.Logger
}

// NewServer builds the echo instance with every route registered.
func NewServer(r Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLogger(r.Logger))
	e.Use(middleware.Metrics())

	// Health endpoints (no auth required)
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/health/live", r.Health.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := middleware.VersionRoute(e, "v1", r.BuildVersion)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(r.JWTSecret)), middleware.RequireSession())

	tables := protected.Group("/tables/:table")
	tables.GET("", r.Tables.GetTable)
	tables.PUT("/filters", r.Tables.ReplaceFilters)
	tables.PATCH("/filters", r.Tables.SetFilter)
	tables.DELETE("/filters", r.Tables.ResetFilters)
	tables.POST("/sort/:column", r.Tables.ToggleSort)
	tables.POST("/page/next", r.Tables.NextPage)
	tables.POST("/page/prev", r.Tables.PrevPage)
	tables.PUT("/page-size", r.Tables.SetPageSize)
	tables.PUT("/columns/:column", r.Tables.SetColumnVisibility)

	protected.POST("/datasets/reload", r.Tables.ReloadDataset)
	protected.POST("/reports/:entity/:format", r.Reports.Export)

	return e
}
