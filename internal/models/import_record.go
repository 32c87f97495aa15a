package models

import "time"

// ImportStatus is the lifecycle state of a lead list import.
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusReady      ImportStatus = "ready"
	ImportStatusFailed     ImportStatus = "failed"
)

// Valid reports whether s is a known lifecycle state.
func (s ImportStatus) Valid() bool {
	switch s {
	case ImportStatusProcessing, ImportStatusReady, ImportStatusFailed:
		return true
	}
	return false
}

// ImportRecord tracks one lead list upload through processing.
// SourceFileURL is set at creation and never changes; FileURL and
// RecordCount are filled in by the processor callback on success,
// ErrorMessage on failure.
type ImportRecord struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	County        string       `json:"county"`
	State         string       `json:"state"`
	Status        ImportStatus `json:"status"`
	SourceFileURL string       `json:"sourceFileUrl"`
	FileURL       string       `json:"fileUrl,omitempty"`
	RecordCount   int          `json:"recordCount,omitempty"`
	ErrorMessage  string       `json:"errorMessage,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	DateImported  time.Time    `json:"dateImported"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// FileInfo represents metadata about a file held in blob storage.
type FileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}
