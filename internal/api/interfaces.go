// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// LeadListHandler handles the lead list import lifecycle
type LeadListHandler interface {
	HandleSubmit(c echo.Context) error
	HandleGetStatus(c echo.Context) error
	HandleDelete(c echo.Context) error
	HandleCallback(c echo.Context) error
	HandleList(c echo.Context) error
	HandleExport(c echo.Context) error
}

// FileHandler handles blob storage operations
type FileHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleDownloadFile(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
