// Package history journals committed mode changes so users can inspect
// when and how the preference flipped.
package history

import (
	"context"
	"time"
)

// Entry is one recorded mode change.
type Entry struct {
	ID        string
	Mode      string
	Dark      bool
	Timestamp time.Time
}

// Store defines the interface for persisting and retrieving mode-change entries.
type Store interface {
	// Append adds a new entry to the journal.
	Append(ctx context.Context, e Entry) error

	// Recent retrieves the most recent entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// GetRange retrieves entries within a time range, oldest first.
	GetRange(ctx context.Context, start, end time.Time) ([]Entry, error)

	// Close closes the store and releases resources.
	Close() error
}
