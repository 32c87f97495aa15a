// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/landhud/backend/internal/blob"
	"github.com/landhud/backend/internal/leadlist"
	"github.com/landhud/backend/internal/store"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Records store.RecordStore
	Blobs   blob.Store
	Service *leadlist.Service
	Version string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	LeadList LeadListHandler
	Files    FileHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Records),
		LeadList: NewLeadListHandler(deps.Service),
		Files:    NewFileHandler(deps.Blobs),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Blob storage
	apiGroup.POST("/files/upload", handlers.Files.HandleUploadFile)
	apiGroup.GET("/files/:name", handlers.Files.HandleDownloadFile)

	// Lead list lifecycle
	apiGroup.POST("/leadlists", handlers.LeadList.HandleSubmit)
	apiGroup.GET("/leadlists", handlers.LeadList.HandleList)
	apiGroup.GET("/leadlists/export", handlers.LeadList.HandleExport)
	apiGroup.GET("/leadlists/:id/status", handlers.LeadList.HandleGetStatus)
	apiGroup.DELETE("/leadlists/:id", handlers.LeadList.HandleDelete)

	// Processor callback
	apiGroup.POST("/leadlists/:id/callback", handlers.LeadList.HandleCallback)
}
