// mocks.go - In-memory doubles for the record store, blob storage,
// and the processor webhook, used across package tests.
package testutil

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/landhud/backend/internal/models"
	"github.com/landhud/backend/internal/notify"
	"github.com/landhud/backend/internal/store"
)

// MockRecordStore implements store.RecordStore in memory.
type MockRecordStore struct {
	mu      sync.RWMutex
	records map[string]*models.ImportRecord

	// Failure injection
	CreateErr error
	DeleteErr error
}

// NewMockRecordStore creates an empty in-memory record store.
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{records: make(map[string]*models.ImportRecord)}
}

func (m *MockRecordStore) Create(ctx context.Context, rec *models.ImportRecord) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *MockRecordStore) Get(ctx context.Context, id string) (*models.ImportRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockRecordStore) List(ctx context.Context, status models.ImportStatus, limit int) ([]*models.ImportRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.ImportRecord
	for _, rec := range m.records {
		if status != "" && rec.Status != status {
			continue
		}
		cp := *rec
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockRecordStore) MarkReady(ctx context.Context, id string, fileURL string, recordCount int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.Status != models.ImportStatusProcessing {
		return false, nil
	}
	rec.Status = models.ImportStatusReady
	rec.FileURL = fileURL
	rec.RecordCount = recordCount
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockRecordStore) MarkFailed(ctx context.Context, id string, errorMessage string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.Status != models.ImportStatusProcessing {
		return false, nil
	}
	rec.Status = models.ImportStatusFailed
	rec.ErrorMessage = errorMessage
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockRecordStore) Delete(ctx context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MockRecordStore) Ping(ctx context.Context) error { return nil }

func (m *MockRecordStore) Close() error { return nil }

// Count returns the number of stored records.
func (m *MockRecordStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Add seeds a record directly, bypassing failure injection.
func (m *MockRecordStore) Add(rec *models.ImportRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[rec.ID] = &cp
}

// MockBlobStore implements blob.Store in memory.
type MockBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string

	// Failure injection
	RemoveErr error
}

// NewMockBlobStore creates an empty in-memory blob store.
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{objects: make(map[string][]byte)}
}

func (m *MockBlobStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	stored := uuid.New().String() + "_" + name
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[stored] = data
	return &models.FileInfo{
		ID:         stored,
		Name:       stored,
		Size:       int64(len(data)),
		URL:        "http://blob.test/api/files/" + stored,
		UploadedAt: time.Now(),
	}, nil
}

func (m *MockBlobStore) Open(name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (m *MockBlobStore) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, name)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.objects, name)
	return nil
}

// Removed returns the names passed to Remove, in order.
func (m *MockBlobStore) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removed...)
}

// MockNotifier implements notify.Notifier and records every payload.
// Notified receives each payload after it is recorded, so tests can
// wait for the detached delivery goroutine.
type MockNotifier struct {
	mu       sync.Mutex
	payloads []notify.Payload
	Notified chan notify.Payload

	// Failure injection
	Err error
}

// NewMockNotifier creates a notifier double.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Notified: make(chan notify.Payload, 16)}
}

func (m *MockNotifier) Notify(ctx context.Context, p notify.Payload) error {
	m.mu.Lock()
	m.payloads = append(m.payloads, p)
	m.mu.Unlock()
	m.Notified <- p
	return m.Err
}

// Payloads returns the payloads delivered so far.
func (m *MockNotifier) Payloads() []notify.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Payload(nil), m.payloads...)
}
