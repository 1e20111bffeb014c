package state

import (
	"context"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
)

// FileSlot persists the slot as a single JSON file. Writes go through a
// temporary file and rename so concurrent readers never observe a
// partial record.
type FileSlot struct {
	path string
}

// NewFileSlot creates a file-backed slot at path, creating the parent
// directory if needed.
func NewFileSlot(path string) (*FileSlot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryState, "resolve slot path").
			WithContext("path", path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryState, "create slot directory").
			WithContext("path", abs).
			Build()
	}
	return &FileSlot{path: abs}, nil
}

// Path returns the absolute file path backing the slot.
func (f *FileSlot) Path() string { return f.path }

func (f *FileSlot) Get(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, ferrors.WrapError(err, ferrors.CategoryState, "read slot file").
			WithContext("path", f.path).
			Build()
	}
	return data, true, nil
}

func (f *FileSlot) Set(_ context.Context, data []byte) error {
	tempPath := f.path + ".tmp"

	// Atomic write using temporary file
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryState, "write temporary slot file").
			WithContext("path", tempPath).
			Build()
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryState, "replace slot file").
			WithContext("path", f.path).
			Build()
	}
	return nil
}

func (f *FileSlot) Close() error { return nil }
