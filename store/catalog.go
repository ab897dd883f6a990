// Package store keeps the SQLite catalog of uploaded workbooks:
// which files exist, when they arrived and what sheets they carry.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Upload is one catalogued workbook.
type Upload struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	Sheets     []string  `json:"sheets"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Catalog is the SQLite-backed upload catalog.
type Catalog struct {
	db   *sql.DB
	path string
}

// NewCatalog opens (and if needed creates) the catalog database.
func NewCatalog(dbPath string) (*Catalog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{db: db, path: dbPath}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return c, nil
}

// initSchema creates the catalog schema.
func (c *Catalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		size_bytes INTEGER NOT NULL,
		sheets TEXT NOT NULL,
		uploaded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_uploads_uploaded_at ON uploads(uploaded_at);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Save records an upload, replacing any previous entry for the same
// filename.
func (c *Catalog) Save(ctx context.Context, upload *Upload) error {
	sheets, err := json.Marshal(upload.Sheets)
	if err != nil {
		return fmt.Errorf("failed to serialize sheet list: %w", err)
	}

	query := `
		INSERT INTO uploads (id, filename, size_bytes, sheets, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			id = excluded.id,
			size_bytes = excluded.size_bytes,
			sheets = excluded.sheets,
			uploaded_at = excluded.uploaded_at
	`

	_, err = c.db.ExecContext(ctx, query,
		upload.ID, upload.Filename, upload.SizeBytes, string(sheets), upload.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return nil
}

// Get retrieves one upload by filename.
func (c *Catalog) Get(ctx context.Context, filename string) (*Upload, error) {
	query := `
		SELECT id, filename, size_bytes, sheets, uploaded_at
		FROM uploads
		WHERE filename = ?
	`

	var upload Upload
	var sheets string
	err := c.db.QueryRowContext(ctx, query, filename).Scan(
		&upload.ID, &upload.Filename, &upload.SizeBytes, &sheets, &upload.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload not found: %s", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}

	if err := json.Unmarshal([]byte(sheets), &upload.Sheets); err != nil {
		return nil, fmt.Errorf("failed to parse sheet list: %w", err)
	}
	return &upload, nil
}

// List retrieves all uploads, newest first.
func (c *Catalog) List(ctx context.Context) ([]*Upload, error) {
	query := `
		SELECT id, filename, size_bytes, sheets, uploaded_at
		FROM uploads
		ORDER BY uploaded_at DESC
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		var upload Upload
		var sheets string
		if err := rows.Scan(&upload.ID, &upload.Filename, &upload.SizeBytes,
			&sheets, &upload.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		if err := json.Unmarshal([]byte(sheets), &upload.Sheets); err != nil {
			return nil, fmt.Errorf("failed to parse sheet list: %w", err)
		}
		uploads = append(uploads, &upload)
	}
	return uploads, rows.Err()
}

// Delete removes an upload from the catalog. Missing entries are not
// an error so that catalog and filesystem can be reconciled.
func (c *Catalog) Delete(ctx context.Context, filename string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM uploads WHERE filename = ?`, filename)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}
