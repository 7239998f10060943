// Package index persists scan results in a SQLite database.
//
// The index records which SQL files reference which tables, one scan at
// a time. Queries always answer from the latest finished scan, so stale
// edges from deleted files disappear on the next scan.
package index

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed scan index.
type Store struct {
	db   *sql.DB
	path string
}

// TableUsage summarizes one table across the files of a scan.
type TableUsage struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
}

// Scan describes one recorded scan run.
type Scan struct {
	ID    string `json:"id"`
	Root  string `json:"root"`
	Files int    `json:"files"`
}

// Open opens (creating if needed) the index database at path.
// Use ":memory:" for an in-memory index.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create index directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginScan records the start of a scan over root and returns the scan ID.
func (s *Store) BeginScan(ctx context.Context, root string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scans (id, root) VALUES (?, ?)", id, root)
	if err != nil {
		return "", fmt.Errorf("failed to record scan: %w", err)
	}
	return id, nil
}

// RecordFile stores the table edges of one file under the given scan.
func (s *Store) RecordFile(ctx context.Context, scanID, file string, tables []string) error {
	if len(tables) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO file_tables (scan_id, file, table_name) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, table := range tables {
		if _, err := stmt.ExecContext(ctx, scanID, file, table); err != nil {
			return fmt.Errorf("failed to record table %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// FinishScan marks the scan finished with its file count.
func (s *Store) FinishScan(ctx context.Context, scanID string, files int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE scans SET finished_at = CURRENT_TIMESTAMP, files = ? WHERE id = ?",
		files, scanID)
	if err != nil {
		return fmt.Errorf("failed to finish scan: %w", err)
	}
	return nil
}

// LatestScan returns the most recent finished scan, or nil if the index
// is empty.
func (s *Store) LatestScan(ctx context.Context) (*Scan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, root, files FROM scans
		WHERE finished_at IS NOT NULL
		ORDER BY finished_at DESC, rowid DESC
		LIMIT 1`)

	var scan Scan
	if err := row.Scan(&scan.ID, &scan.Root, &scan.Files); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest scan: %w", err)
	}
	return &scan, nil
}

// Tables returns the table usage of the latest scan, ordered by name.
func (s *Store) Tables(ctx context.Context) ([]TableUsage, error) {
	scan, err := s.LatestScan(ctx)
	if err != nil {
		return nil, err
	}
	if scan == nil {
		return []TableUsage{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name, COUNT(DISTINCT file) AS files
		FROM file_tables
		WHERE scan_id = ?
		GROUP BY table_name
		ORDER BY table_name COLLATE NOCASE`, scan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	usages := []TableUsage{}
	for rows.Next() {
		var u TableUsage
		if err := rows.Scan(&u.Name, &u.Files); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// FilesReferencing returns the files of the latest scan that reference
// the given table (case-insensitive), ordered by path.
func (s *Store) FilesReferencing(ctx context.Context, table string) ([]string, error) {
	scan, err := s.LatestScan(ctx)
	if err != nil {
		return nil, err
	}
	if scan == nil {
		return []string{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT file FROM file_tables
		WHERE scan_id = ? AND table_name = ? COLLATE NOCASE
		ORDER BY file`, scan.ID, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
