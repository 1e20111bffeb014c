// Package logfields centralizes slog attribute names used across themesync.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyMode     = "mode"
	KeySource   = "source"
	KeyTrigger  = "trigger"
	KeySurface  = "surface"
	KeyBackend  = "backend"
	KeyPath     = "path"
	KeySubject  = "subject"
	KeySelector = "selector"
	KeyJobID    = "job_id"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Mode(m string) slog.Attr        { return slog.String(KeyMode, m) }
func Source(s string) slog.Attr     { return slog.String(KeySource, s) }
func Trigger(t string) slog.Attr    { return slog.String(KeyTrigger, t) }
func Surface(s string) slog.Attr    { return slog.String(KeySurface, s) }
func Backend(b string) slog.Attr    { return slog.String(KeyBackend, b) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Subject(s string) slog.Attr    { return slog.String(KeySubject, s) }
func Selector(s string) slog.Attr   { return slog.String(KeySelector, s) }
func JobID(id string) slog.Attr     { return slog.String(KeyJobID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
