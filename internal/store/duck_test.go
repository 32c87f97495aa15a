// duck_test.go - Tests for the DuckDB-backed record store
package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/landhud/backend/internal/models"
)

// createTestStore creates an in-memory DuckStore for testing
func createTestStore(t *testing.T) *DuckStore {
	t.Helper()
	store, err := NewDuckStore("")
	if err != nil {
		t.Fatalf("Failed to create DuckStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string) *models.ImportRecord {
	now := time.Now()
	return &models.ImportRecord{
		ID:            id,
		Name:          "Travis, TX - Aug 31, 2026",
		County:        "Travis",
		State:         "TX",
		Status:        models.ImportStatusProcessing,
		SourceFileURL: "https://store/a.csv",
		Notes:         "august batch",
		DateImported:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestDuckStore_CreateAndGet(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testRecord("rec-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.County != "Travis" || got.State != "TX" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.Status != models.ImportStatusProcessing {
		t.Errorf("expected processing, got %s", got.Status)
	}
	if got.SourceFileURL != "https://store/a.csv" {
		t.Errorf("unexpected source file url: %s", got.SourceFileURL)
	}
	if got.FileURL != "" || got.RecordCount != 0 || got.ErrorMessage != "" {
		t.Errorf("processing record must have empty result fields: %+v", got)
	}
	if got.Notes != "august batch" {
		t.Errorf("unexpected notes: %q", got.Notes)
	}
}

func TestDuckStore_GetNotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuckStore_CreateDuplicateID(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testRecord("rec-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, testRecord("rec-1")); err == nil {
		t.Error("expected primary key violation for duplicate id")
	}
}

func TestDuckStore_MarkReady(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testRecord("rec-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	applied, err := store.MarkReady(ctx, "rec-1", "https://store/processed/a.csv", 412)
	if err != nil {
		t.Fatalf("MarkReady failed: %v", err)
	}
	if !applied {
		t.Fatal("expected transition to apply")
	}

	got, err := store.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.ImportStatusReady {
		t.Errorf("expected ready, got %s", got.Status)
	}
	if got.FileURL != "https://store/processed/a.csv" || got.RecordCount != 412 {
		t.Errorf("result fields not set: %+v", got)
	}

	// A duplicate callback is a no-op.
	applied, err = store.MarkReady(ctx, "rec-1", "https://store/other.csv", 1)
	if err != nil {
		t.Fatalf("duplicate MarkReady errored: %v", err)
	}
	if applied {
		t.Error("duplicate transition must not apply")
	}
	got, _ = store.Get(ctx, "rec-1")
	if got.RecordCount != 412 {
		t.Errorf("duplicate transition must not overwrite, got count %d", got.RecordCount)
	}
}

func TestDuckStore_MarkFailed(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testRecord("rec-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	applied, err := store.MarkFailed(ctx, "rec-1", "malformed header row")
	if err != nil || !applied {
		t.Fatalf("MarkFailed: applied=%v err=%v", applied, err)
	}

	got, _ := store.Get(ctx, "rec-1")
	if got.Status != models.ImportStatusFailed || got.ErrorMessage != "malformed header row" {
		t.Errorf("unexpected record after failure: %+v", got)
	}

	// Ready after failed must not apply.
	applied, err = store.MarkReady(ctx, "rec-1", "https://store/p.csv", 5)
	if err != nil {
		t.Fatalf("MarkReady errored: %v", err)
	}
	if applied {
		t.Error("transition on a settled record must not apply")
	}
}

func TestDuckStore_MarkOnMissingRecord(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	applied, err := store.MarkReady(ctx, "gone", "https://store/p.csv", 1)
	if err != nil {
		t.Fatalf("MarkReady errored: %v", err)
	}
	if applied {
		t.Error("transition on a missing record must not apply")
	}
}

func TestDuckStore_Delete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testRecord("rec-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, "rec-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, "rec-1"); err != nil {
		t.Errorf("repeat delete errored: %v", err)
	}
}

func TestDuckStore_List(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"rec-1", "rec-2", "rec-3"} {
		rec := testRecord(id)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Create(ctx, rec); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.MarkReady(ctx, "rec-2", "https://store/p.csv", 9); err != nil {
		t.Fatalf("MarkReady failed: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		records, err := store.List(ctx, "", 0)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		if records[0].ID != "rec-3" || records[2].ID != "rec-1" {
			t.Errorf("expected newest-first ordering, got %s..%s", records[0].ID, records[2].ID)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		records, err := store.List(ctx, models.ImportStatusReady, 0)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 1 || records[0].ID != "rec-2" {
			t.Errorf("expected only rec-2, got %v", records)
		}
	})

	t.Run("limit", func(t *testing.T) {
		records, err := store.List(ctx, "", 2)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records, got %d", len(records))
		}
	})
}

func TestDuckStore_PersistsToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "records.duckdb")
	ctx := context.Background()

	store, err := NewDuckStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create DuckStore: %v", err)
	}
	if err := store.Create(ctx, testRecord("rec-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewDuckStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen DuckStore: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.County != "Travis" {
		t.Errorf("unexpected record after reopen: %+v", got)
	}
}
