// Package state implements the preference store: a single key-value
// slot holding the JSON-serialized preference record, plus the
// load/merge/persist rules that keep caller overrides and the user's
// last-chosen mode from clobbering each other.
package state

import (
	"context"
	"sync"
)

// Slot is a single key-value entry. Implementations back it with a
// local file, process memory, or a NATS JetStream KV bucket; the store
// neither knows nor cares. There is exactly one value; last write wins.
type Slot interface {
	// Get returns the current slot contents. ok is false when the slot
	// has never been written.
	Get(ctx context.Context) (data []byte, ok bool, err error)

	// Set replaces the slot contents.
	Set(ctx context.Context, data []byte) error

	// Close releases any resources held by the slot.
	Close() error
}

// MemorySlot is an in-process Slot used by tests and by callers that
// want isolated, non-persistent instances.
type MemorySlot struct {
	mu      sync.RWMutex
	data    []byte
	present bool
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Get(_ context.Context) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.present {
		return nil, false, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, true, nil
}

func (m *MemorySlot) Set(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.present = true
	return nil
}

func (m *MemorySlot) Close() error { return nil }
