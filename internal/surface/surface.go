// Package surface contains the stateless applicators that project a
// preference record onto a target surface, and an HTML document surface
// implementation.
//
// Surfaces legitimately may not exist yet during early startup or while
// content is being replaced, so every applicator treats a missing
// target as a silent no-op rather than an error.
package surface

import "git.home.luguber.info/inful/themesync/internal/theme"

// ClassTarget is an element whose class list can be mutated.
// Implementations must tolerate nil receivers so a failed lookup
// degrades to a no-op.
type ClassTarget interface {
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
}

// AttributeTarget is an element carrying a single mutable attribute.
type AttributeTarget interface {
	SetAttribute(name, value string)
	Attribute(name string) string
}

// Shell is the host application surface: one top-level element whose
// class list reflects the active mode. Root may return nil when the
// shell has not been mounted yet.
type Shell interface {
	Root() ClassTarget
}

// Frame is the embedded content frame. Both lookups may return nil when
// the frame or the selected element does not exist.
type Frame interface {
	ClassTarget(selector string) ClassTarget
	AttributeTarget(selector string) AttributeTarget
}

// ApplyClassToggle adds the class name for the record's active mode and
// removes the class name for the inactive mode. Repeated calls with the
// same record produce no additional change.
func ApplyClassToggle(target ClassTarget, rec theme.PreferenceRecord) {
	if target == nil {
		return
	}
	target.RemoveClass(rec.ClassName(rec.Current.Opposite()))
	target.AddClass(rec.ClassName(rec.Current))
}

// ApplyAttributeToggle sets the configured attribute to the active-mode
// value. Absent preview config means the feature is disabled, not an
// error.
func ApplyAttributeToggle(target AttributeTarget, rec theme.PreferenceRecord) {
	if target == nil || rec.Preview == nil {
		return
	}
	target.SetAttribute(rec.Preview.EffectiveAttributeName(), rec.Preview.AttributeValue(rec.Current))
}
