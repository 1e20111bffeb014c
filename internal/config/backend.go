package config

import (
	"git.home.luguber.info/inful/themesync/internal/foundation/normalization"
)

// StorageBackend enumerates where the preference record lives.
type StorageBackend string

const (
	BackendFile   StorageBackend = "file"
	BackendMemory StorageBackend = "memory"
	BackendNATS   StorageBackend = "nats"
)

var backendNormalizer = normalization.NewNormalizer(map[string]StorageBackend{
	"file":   BackendFile,
	"memory": BackendMemory,
	"nats":   BackendNATS,
}, BackendFile)

// NormalizeBackend maps a raw backend name to its canonical value,
// defaulting to the file backend.
func NormalizeBackend(raw string) StorageBackend {
	return backendNormalizer.Normalize(raw)
}

// ParseBackend is the strict variant used during validation.
func ParseBackend(raw string) (StorageBackend, error) {
	return backendNormalizer.NormalizeWithError(raw)
}
