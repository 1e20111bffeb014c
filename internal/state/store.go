package state

import (
	"context"
	"encoding/json"
	"sync"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// Store reads and writes the preference record through a Slot. All
// access is serialized by a mutex so the read-merge-write sequence
// stays atomic when multiple goroutines (or multiple toggle instances
// in one process) share a store.
type Store struct {
	mu   sync.Mutex
	slot Slot
}

// NewStore creates a store over the given slot.
func NewStore(slot Slot) *Store {
	return &Store{slot: slot}
}

// Exists reports whether the slot already holds a persisted record.
// The initialization resolver gates on this before acting.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.slot.Get(ctx)
	return ok, err
}

// Load reads the persisted record and merges the caller-supplied
// overrides into it.
//
// When nothing is persisted yet, the result is the default record with
// all overrides applied, including the override's initial mode; the
// record is not written back. Creation is not a user choice, and
// persisting here would make the resolver mistake defaults for one.
//
// When a record exists, each override field that is structurally
// different from the stored value replaces it and the record is
// immediately re-persisted (write-through). The stored current mode is
// never altered by Load.
func (s *Store) Load(ctx context.Context, o theme.Overrides) (theme.PreferenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.slot.Get(ctx)
	if err != nil {
		return theme.PreferenceRecord{}, err
	}

	if !ok {
		rec := theme.DefaultRecord()
		rec.Merge(o)
		if o.Current != nil && o.Current.Valid() {
			rec.Current = *o.Current
		}
		return rec, nil
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return theme.PreferenceRecord{}, err
	}

	if changed := rec.Merge(o); changed {
		if err := s.persistLocked(ctx, rec); err != nil {
			return theme.PreferenceRecord{}, err
		}
	}

	return rec, nil
}

// Persist serializes and writes the full record, replacing any prior
// value. Last write wins; there is no versioning.
func (s *Store) Persist(ctx context.Context, rec theme.PreferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked(ctx, rec)
}

// UpdateCurrent loads the record (without overrides), sets the current
// mode, and persists. This is the single read-merge-write the core uses
// to commit a mode; the whole sequence runs under the store lock.
func (s *Store) UpdateCurrent(ctx context.Context, o theme.Overrides, mode theme.Mode) (theme.PreferenceRecord, error) {
	if !mode.Valid() {
		return theme.PreferenceRecord{}, ferrors.ValidationError("invalid mode").
			WithContext("mode", string(mode)).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.slot.Get(ctx)
	if err != nil {
		return theme.PreferenceRecord{}, err
	}

	var rec theme.PreferenceRecord
	if ok {
		rec, err = decodeRecord(data)
		if err != nil {
			return theme.PreferenceRecord{}, err
		}
	} else {
		rec = theme.DefaultRecord()
	}
	rec.Merge(o)
	rec.Current = mode

	if err := s.persistLocked(ctx, rec); err != nil {
		return theme.PreferenceRecord{}, err
	}
	return rec, nil
}

// Close releases the underlying slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

func (s *Store) persistLocked(ctx context.Context, rec theme.PreferenceRecord) error {
	if !rec.Current.Valid() {
		return ferrors.ValidationError("record has no valid current mode").
			WithContext("current", string(rec.Current)).
			Build()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryState, "encode preference record").Build()
	}
	return s.slot.Set(ctx, data)
}

// decodeRecord deserializes slot contents. Malformed data is a fatal
// state error: fabricating a fresh record here could silently mask a
// corrupted slot.
func decodeRecord(data []byte) (theme.PreferenceRecord, error) {
	var rec theme.PreferenceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return theme.PreferenceRecord{}, ferrors.WrapError(err, ferrors.CategoryState, "preference slot is corrupted").
			Fatal().
			Build()
	}
	if !rec.Current.Valid() {
		return theme.PreferenceRecord{}, ferrors.StateError("preference slot holds an unknown mode").
			WithContext("current", string(rec.Current)).
			Build()
	}
	return rec, nil
}
