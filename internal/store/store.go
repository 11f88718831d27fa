// Package store keeps a local history of verification runs. The pipeline
// never reads it back; it exists for the history command only.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Run is one recorded verification outcome.
type Run struct {
	ID             int64
	Package        string
	Version        string
	Verified       bool
	RegistryShasum string
	RemoteShasum   string
	Detail         string
	StartedAt      time.Time
}

// Store is an append-only run log backed by SQLite.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the history database location. It respects
// XDG_DATA_HOME, falling back to ~/.local/share/veripack/history.db.
func DefaultPath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "veripack", "history.db")
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "veripack", "history.db")
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append records one run.
func (s *Store) Append(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (package, version, verified, registry_shasum, remote_shasum, detail, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Package, run.Version, run.Verified,
		run.RegistryShasum, run.RemoteShasum, run.Detail,
		run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, package, version, verified, registry_shasum, remote_shasum, detail, started_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(&run.ID, &run.Package, &run.Version, &run.Verified,
			&run.RegistryShasum, &run.RemoteShasum, &run.Detail, &startedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
