// handlers_files.go - Blob storage upload/download handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landhud/backend/internal/blob"
)

// FileHandlerImpl implements the FileHandler interface
type FileHandlerImpl struct {
	blobs blob.Store
}

// NewFileHandler creates a new file handler instance
func NewFileHandler(blobs blob.Store) FileHandler {
	return &FileHandlerImpl{blobs: blobs}
}

// HandleUploadFile accepts a raw file upload (multipart/form-data)
// into blob storage and returns the reference the submit endpoint
// expects
func (h *FileHandlerImpl) HandleUploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.blobs.Save(file.Filename, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":          true,
		"fileName":         info.Name,
		"fileUrl":          info.URL,
		"size":             info.Size,
		"originalFilename": file.Filename,
	})
}

// HandleDownloadFile streams a stored object back to the client
func (h *FileHandlerImpl) HandleDownloadFile(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return NewValidationError("name")
	}

	f, err := h.blobs.Open(name)
	if err != nil {
		return NewNotFoundError("file", name)
	}
	defer f.Close()

	return c.Stream(http.StatusOK, "application/octet-stream", f)
}
