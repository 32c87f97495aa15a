// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landhud/backend/internal/store"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	records store.RecordStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, records store.RecordStore) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		records: records,
	}
}

// HandleHealth returns server health status, including a record
// store ping
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	dbStatus := "ok"
	if h.records != nil {
		if err := h.records.Ping(c.Request().Context()); err != nil {
			dbStatus = "unavailable"
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"database": dbStatus,
	})
}
