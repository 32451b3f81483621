// Package history keeps a log of calendar runs in a SQLite database.
package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Run is one execution of the calendar pipeline
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	DocumentURL string    `json:"document_url"`
	Team        string    `json:"team"`
	MatchCount  int       `json:"match_count"`
	WindowCount int       `json:"window_count"`
	WindowStart string    `json:"window_start,omitempty"`
	Notified    bool      `json:"notified"`
	Error       string    `json:"error,omitempty"`
}

// Succeeded reports whether the run finished without error
func (r *Run) Succeeded() bool {
	return r.Error == ""
}

// Store records runs
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens (creating if needed) the run log at path with WAL mode enabled
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	document_url TEXT NOT NULL DEFAULT '',
	team TEXT NOT NULL,
	match_count INTEGER NOT NULL DEFAULT 0,
	window_count INTEGER NOT NULL DEFAULT 0,
	window_start TEXT NOT NULL DEFAULT '',
	notified INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// newID returns a ULID ordered after every ID this store issued before
func (s *Store) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Record inserts run, assigning its ID and start time when unset
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	if run.ID == "" {
		run.ID = s.newID(run.StartedAt)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, document_url, team, match_count, window_count, window_start, notified, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.DocumentURL,
		run.Team,
		run.MatchCount,
		run.WindowCount,
		run.WindowStart,
		run.Notified,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `
SELECT id, started_at, document_url, team, match_count, window_count, window_start, notified, error
FROM runs
ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		var (
			run       Run
			startedAt string
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.DocumentURL, &run.Team, &run.MatchCount,
			&run.WindowCount, &run.WindowStart, &run.Notified, &run.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	return runs, nil
}
