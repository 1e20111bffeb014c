package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based journal.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mode_changes (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		dark INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_mode_timestamp ON mode_changes(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a new entry to the journal.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dark := 0
	if e.Dark {
		dark = 1
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO mode_changes (id, mode, dark, timestamp) VALUES (?, ?, ?, ?)",
		e.ID, e.Mode, dark, e.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert mode change: %w", err)
	}

	return nil
}

// Recent retrieves the most recent entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, mode, dark, timestamp FROM mode_changes ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query mode changes: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

// GetRange retrieves entries within a time range, oldest first.
func (s *SQLiteStore) GetRange(ctx context.Context, start, end time.Time) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, mode, dark, timestamp FROM mode_changes WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp, id",
		start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query mode changes: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

func (s *SQLiteStore) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var dark int
		var timestampUnix int64

		if err := rows.Scan(&e.ID, &e.Mode, &dark, &timestampUnix); err != nil {
			return nil, fmt.Errorf("scan mode change: %w", err)
		}

		e.Dark = dark != 0
		e.Timestamp = time.Unix(timestampUnix, 0)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mode changes: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
