package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionRoute creates the /<apiVersion> route group and stamps every
// response with the API and build versions.
func VersionRoute(e *echo.Echo, apiVersion, buildVersion string) *echo.Group {
	group := e.Group("/" + apiVersion)
	group.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", apiVersion)
			if buildVersion != "" {
				c.Response().Header().Set("X-App-Version", buildVersion)
			}
			return next(c)
		}
	})
	return group
}
