package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/landhud/backend/internal/models"
)

// DuckStore implements RecordStore on an embedded DuckDB database.
// An empty path opens an in-memory database, which the tests use.
type DuckStore struct {
	db *sql.DB
}

// NewDuckStore opens (or creates) the database at dbPath and ensures
// the lead_list_imports table exists.
func NewDuckStore(dbPath string) (*DuckStore, error) {
	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS lead_list_imports (
			id              VARCHAR PRIMARY KEY,
			name            VARCHAR NOT NULL,
			county          VARCHAR NOT NULL,
			state           VARCHAR NOT NULL,
			status          VARCHAR NOT NULL,
			source_file_url VARCHAR NOT NULL,
			file_url        VARCHAR,
			record_count    INTEGER,
			error_message   VARCHAR,
			notes           VARCHAR,
			date_imported   TIMESTAMP NOT NULL,
			created_at      TIMESTAMP NOT NULL,
			updated_at      TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating lead_list_imports table: %w", err)
	}

	log.Printf("[RecordStore] Database ready at %q", dbPath)
	return &DuckStore{db: db}, nil
}

// Create inserts a new import record.
func (s *DuckStore) Create(ctx context.Context, rec *models.ImportRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lead_list_imports
			(id, name, county, state, status, source_file_url, file_url,
			 record_count, error_message, notes, date_imported, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.County, rec.State, string(rec.Status),
		rec.SourceFileURL, nullString(rec.FileURL), nullInt(rec.RecordCount),
		nullString(rec.ErrorMessage), nullString(rec.Notes),
		rec.DateImported, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting import record: %w", err)
	}
	return nil
}

// Get retrieves a record by id. Returns ErrNotFound when absent.
func (s *DuckStore) Get(ctx context.Context, id string) (*models.ImportRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying import record: %w", err)
	}
	return rec, nil
}

// List returns records newest first. An empty status matches all
// statuses; limit <= 0 means no cap.
func (s *DuckStore) List(ctx context.Context, status models.ImportStatus, limit int) ([]*models.ImportRecord, error) {
	query := selectColumns
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing import records: %w", err)
	}
	defer rows.Close()

	var records []*models.ImportRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning import record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating import records: %w", err)
	}
	return records, nil
}

// MarkReady transitions a processing record to ready. The update is
// idempotent: it applies only while the record is still processing,
// and reports false (without error) for duplicate callbacks or ids
// that no longer resolve.
func (s *DuckStore) MarkReady(ctx context.Context, id string, fileURL string, recordCount int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE lead_list_imports
		SET status = ?, file_url = ?, record_count = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.ImportStatusReady), fileURL, recordCount, time.Now(),
		id, string(models.ImportStatusProcessing),
	)
	if err != nil {
		return false, fmt.Errorf("marking record ready: %w", err)
	}
	return rowsAffected(res), nil
}

// MarkFailed transitions a processing record to failed. Same
// idempotency contract as MarkReady.
func (s *DuckStore) MarkFailed(ctx context.Context, id string, errorMessage string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE lead_list_imports
		SET status = ?, error_message = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.ImportStatusFailed), errorMessage, time.Now(),
		id, string(models.ImportStatusProcessing),
	)
	if err != nil {
		return false, fmt.Errorf("marking record failed: %w", err)
	}
	return rowsAffected(res), nil
}

// Delete removes a record. Deleting an id that is already gone is not
// an error; callers that need a 404 check existence with Get first.
func (s *DuckStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lead_list_imports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting import record: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *DuckStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *DuckStore) Close() error {
	return s.db.Close()
}

const selectColumns = `
	SELECT id, name, county, state, status, source_file_url, file_url,
	       record_count, error_message, notes, date_imported, created_at, updated_at
	FROM lead_list_imports`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ImportRecord, error) {
	var (
		rec          models.ImportRecord
		status       string
		fileURL      sql.NullString
		recordCount  sql.NullInt64
		errorMessage sql.NullString
		notes        sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.County, &rec.State, &status,
		&rec.SourceFileURL, &fileURL, &recordCount, &errorMessage, &notes,
		&rec.DateImported, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = models.ImportStatus(status)
	rec.FileURL = fileURL.String
	rec.RecordCount = int(recordCount.Int64)
	rec.ErrorMessage = errorMessage.String
	rec.Notes = notes.String
	return &rec, nil
}

func rowsAffected(res sql.Result) bool {
	n, err := res.RowsAffected()
	if err != nil {
		return false
	}
	return n > 0
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
