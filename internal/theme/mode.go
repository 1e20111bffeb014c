// Package theme defines the display-preference data model shared by the
// preference store, the surface applicators, and the synchronization core.
package theme

import (
	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/foundation/normalization"
)

// Mode is the two-valued display preference.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

var modeNormalizer = normalization.NewNormalizer(map[string]Mode{
	"light": ModeLight,
	"dark":  ModeDark,
}, ModeLight)

// ParseMode converts a raw string into a Mode, failing on anything that
// is not one of the two variants.
func ParseMode(raw string) (Mode, error) {
	mode, err := modeNormalizer.NormalizeWithError(raw)
	if err != nil {
		return ModeLight, ferrors.ValidationError("invalid mode").
			WithContext("raw", raw).
			Build()
	}
	return mode, nil
}

// NormalizeMode converts a raw string into a Mode, defaulting to light.
func NormalizeMode(raw string) Mode {
	return modeNormalizer.Normalize(raw)
}

// Valid reports whether m is one of the two variants.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeDark
}

// IsDark reports whether m is the dark variant. This is the boolean
// payload carried by mode-change notifications.
func (m Mode) IsDark() bool {
	return m == ModeDark
}

// Opposite returns the logical complement of m.
func (m Mode) Opposite() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

func (m Mode) String() string {
	return string(m)
}
