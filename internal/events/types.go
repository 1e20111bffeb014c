package events

import (
	"time"

	"git.home.luguber.info/inful/themesync/internal/theme"
)

// ContentChanged indicates that the embedded frame's content document
// was replaced and its visual state must be re-asserted.
type ContentChanged struct {
	Path      string
	ChangedAt time.Time
}

// ContentListUpdated indicates that the navigable content set changed
// (files added or removed). Consumers re-assert the active theme.
type ContentListUpdated struct {
	Count     int
	UpdatedAt time.Time
}

// DocsRendered is emitted after the frame's documentation content has
// been rendered. Like ContentChanged it triggers a re-apply, since the
// render replaced the frame's document wholesale.
type DocsRendered struct {
	Source     string
	RenderedAt time.Time
}

// ModeChangeRequested is the external cross-surface command asking the
// core to commit and apply a specific mode. Source names the emitter
// (http, nats, schedule, cli) for logging and metrics.
type ModeChangeRequested struct {
	Mode        theme.Mode
	Source      string
	RequestedAt time.Time
}

// SystemSchemeChanged is published by the color-scheme observer when
// the OS-level preference flips. The system preference wins immediately
// when it fires.
type SystemSchemeChanged struct {
	PrefersDark bool
	Source      string
	ChangedAt   time.Time
}

// Mode returns the mode the system preference maps to.
func (e SystemSchemeChanged) Mode() theme.Mode {
	if e.PrefersDark {
		return theme.ModeDark
	}
	return theme.ModeLight
}

// ModeChanged is the public outbound notification, emitted exactly once
// per visual application, after both the shell and frame surfaces have
// been updated. Dark is true when the dark mode became active.
type ModeChanged struct {
	Dark      bool
	Mode      theme.Mode
	ChangedAt time.Time
}
