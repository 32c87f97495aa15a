// handlers_leadlist.go - Lead list import lifecycle handlers
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/landhud/backend/internal/leadlist"
	"github.com/landhud/backend/internal/models"
	"github.com/landhud/backend/internal/store"
)

// LeadListHandlerImpl implements the LeadListHandler interface
type LeadListHandlerImpl struct {
	service *leadlist.Service
}

// NewLeadListHandler creates a new lead list handler instance
func NewLeadListHandler(service *leadlist.Service) LeadListHandler {
	return &LeadListHandlerImpl{service: service}
}

// HandleSubmit creates a processing record for an uploaded lead list
// and notifies the external processor
func (h *LeadListHandlerImpl) HandleSubmit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	rec, err := h.service.Submit(c.Request().Context(), leadlist.SubmitInput{
		FileName:         req.FileName,
		FileURL:          req.FileURL,
		County:           req.County,
		State:            req.State,
		Notes:            req.Notes,
		OriginalFilename: req.OriginalFilename,
	})
	if err != nil {
		return NewPersistenceError("failed to create lead list record", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":  true,
		"recordId": rec.ID,
		"fileName": req.FileName,
		"fileUrl":  req.FileURL,
		"message":  "Lead list queued for processing",
	})
}

// HandleGetStatus returns the current lifecycle state of a record
func (h *LeadListHandlerImpl) HandleGetStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	rec, err := h.service.Status(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError("lead list", id)
		}
		return NewInternalError("failed to load lead list record", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"record":  rec,
	})
}

// HandleDelete deletes a record and its files; with ?cancel=true it
// doubles as cancellation of in-flight processing
func (h *LeadListHandlerImpl) HandleDelete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}
	cancel, _ := strconv.ParseBool(c.QueryParam("cancel"))

	res, err := h.service.Delete(c.Request().Context(), id, cancel)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError("lead list", id)
		}
		return NewPersistenceError("failed to delete lead list record", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": res.Message,
	})
}

// HandleCallback applies the external processor's completion signal.
// A callback for a deleted or already-settled record is acknowledged
// with applied=false rather than an error, since the processor cannot
// act on a failure.
func (h *LeadListHandlerImpl) HandleCallback(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req callbackRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	applied, err := h.service.ApplyCallback(c.Request().Context(), id, leadlist.CallbackInput{
		Status:       models.ImportStatus(req.Status),
		FileURL:      req.FileURL,
		RecordCount:  req.RecordCount,
		ErrorMessage: req.ErrorMessage,
	})
	if err != nil {
		return NewPersistenceError("failed to apply callback", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"applied": applied,
	})
}

// HandleList returns records newest first for the pipeline board
func (h *LeadListHandlerImpl) HandleList(c echo.Context) error {
	status := models.ImportStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return NewBadRequestError("unknown status filter", nil)
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return NewBadRequestError("limit must be a non-negative integer", err)
		}
		limit = n
	}

	records, err := h.service.List(c.Request().Context(), status, limit)
	if err != nil {
		return NewInternalError("failed to list lead list records", err)
	}
	if records == nil {
		records = []*models.ImportRecord{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"records": records,
		"count":   len(records),
	})
}

// HandleExport returns a msgpack snapshot of all records for the
// dashboard bulk view
func (h *LeadListHandlerImpl) HandleExport(c echo.Context) error {
	records, err := h.service.List(c.Request().Context(), "", 0)
	if err != nil {
		return NewInternalError("failed to export lead list records", err)
	}
	if records == nil {
		records = []*models.ImportRecord{}
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"records":     records,
		"count":       len(records),
		"generatedAt": time.Now(),
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// Request types

type submitRequest struct {
	FileName         string `json:"fileName"`
	FileURL          string `json:"fileUrl"`
	County           string `json:"county"`
	State            string `json:"state"`
	Notes            string `json:"notes"`
	OriginalFilename string `json:"originalFilename"`
}

func (r *submitRequest) validate() error {
	var missing []string
	if r.FileName == "" {
		missing = append(missing, "fileName")
	}
	if r.FileURL == "" {
		missing = append(missing, "fileUrl")
	}
	if r.County == "" {
		missing = append(missing, "county")
	}
	if r.State == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return NewValidationError(missing...)
	}
	return nil
}

type callbackRequest struct {
	Status       string `json:"status"`
	FileURL      string `json:"file_url"`
	RecordCount  int    `json:"record_count"`
	ErrorMessage string `json:"error_message"`
}

func (r *callbackRequest) validate() error {
	switch models.ImportStatus(r.Status) {
	case models.ImportStatusReady:
		if r.FileURL == "" {
			return NewValidationError("file_url")
		}
	case models.ImportStatusFailed:
	default:
		return NewBadRequestError("status must be \"ready\" or \"failed\"", nil)
	}
	return nil
}
