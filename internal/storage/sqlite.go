// Package storage provides the SQLite-backed document catalog for the
// ingest stage.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/policycheck/policyscan/internal/ingest"

	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// SQLiteCatalog implements ingest.Catalog using SQLite.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog opens (and if necessary initializes) the catalog at
// dbPath.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection prevents lock conflicts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	catalog := &SQLiteCatalog{db: db}
	if err := catalog.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return catalog, nil
}

func (c *SQLiteCatalog) initSchema() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := c.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := c.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveDocument upserts the metadata row for a source URL. Re-running
// the ingest stage refreshes the row rather than duplicating it, but
// classification fields set by the phase-2 pass are left untouched.
func (c *SQLiteCatalog) SaveDocument(rec *ingest.DocumentRecord) error {
	query := `
		INSERT INTO documents (
			source_url, file_name, fetched_at, http_status, size_bytes,
			success, skipped, error,
			country, insurer, insurance_line, product_name, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			file_name = excluded.file_name,
			fetched_at = excluded.fetched_at,
			http_status = excluded.http_status,
			size_bytes = excluded.size_bytes,
			success = excluded.success,
			skipped = excluded.skipped,
			error = excluded.error
	`

	_, err := c.db.Exec(query,
		rec.SourceURL,
		rec.FileName,
		rec.FetchedAt,
		rec.HTTPStatus,
		rec.SizeBytes,
		rec.Success,
		rec.Skipped,
		rec.Error,
		rec.Country,
		rec.Insurer,
		rec.InsuranceLine,
		rec.ProductName,
		rec.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to save document record: %w", err)
	}
	return nil
}

// GetDocument loads the metadata row for a source URL, or nil if the
// URL has never been ingested.
func (c *SQLiteCatalog) GetDocument(sourceURL string) (*ingest.DocumentRecord, error) {
	rec := &ingest.DocumentRecord{}
	err := c.db.QueryRow(`
		SELECT source_url, file_name, fetched_at, http_status, size_bytes,
		       success, skipped, error,
		       country, insurer, insurance_line, product_name, status
		FROM documents WHERE source_url = ?
	`, sourceURL).Scan(
		&rec.SourceURL,
		&rec.FileName,
		&rec.FetchedAt,
		&rec.HTTPStatus,
		&rec.SizeBytes,
		&rec.Success,
		&rec.Skipped,
		&rec.Error,
		&rec.Country,
		&rec.Insurer,
		&rec.InsuranceLine,
		&rec.ProductName,
		&rec.Status,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document record: %w", err)
	}
	return rec, nil
}

// CountByOutcome returns how many records succeeded, were skipped, and
// failed. Used for the end-of-run report.
func (c *SQLiteCatalog) CountByOutcome() (succeeded, skipped, failed int, err error) {
	err = c.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN success = 1 AND skipped = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN skipped = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0)
		FROM documents
	`).Scan(&succeeded, &skipped, &failed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return succeeded, skipped, failed, nil
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}
