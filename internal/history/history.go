// Package history keeps a journal of site builds in SQLite.
package history

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

// Entry is one recorded build attempt.
type Entry struct {
	BuildID string
	// Revision is the git commit the site was built from, if known.
	Revision  string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   string
	Pages     int
	Documents int
	// Error is the failure message; empty on success.
	Error string
}

// Store persists build entries. Use ":memory:" for a throwaway database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "open history database").
			WithContext("path", path).
			Build()
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "initialize history schema").
			WithContext("path", path).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL UNIQUE,
		revision TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends e to the journal.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, revision, started_at, duration_ms, outcome, pages, documents, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.BuildID, e.Revision, e.StartedAt.UnixMilli(), e.Duration.Milliseconds(), e.Outcome, e.Pages, e.Documents, e.Error,
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "insert build").
			WithContext("build_id", e.BuildID).
			Build()
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, revision, started_at, duration_ms, outcome, pages, documents, error FROM builds ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "query builds").Build()
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e                   Entry
			startedMS, duration int64
		)
		if err := rows.Scan(&e.BuildID, &e.Revision, &startedMS, &duration, &e.Outcome, &e.Pages, &e.Documents, &e.Error); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "scan build").Build()
		}
		e.StartedAt = time.UnixMilli(startedMS)
		e.Duration = time.Duration(duration) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "iterate builds").Build()
	}
	return entries, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
