package store

import (
	"context"
	"errors"

	"github.com/landhud/backend/internal/models"
)

// ErrNotFound is returned when a record id does not resolve.
var ErrNotFound = errors.New("record not found")

// RecordStore defines the interface for the lead list import table.
type RecordStore interface {
	Create(ctx context.Context, rec *models.ImportRecord) error
	Get(ctx context.Context, id string) (*models.ImportRecord, error)
	List(ctx context.Context, status models.ImportStatus, limit int) ([]*models.ImportRecord, error)
	MarkReady(ctx context.Context, id string, fileURL string, recordCount int) (bool, error)
	MarkFailed(ctx context.Context, id string, errorMessage string) (bool, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
