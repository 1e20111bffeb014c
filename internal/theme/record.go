package theme

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// AttributeName is the single attribute the frame applicator mutates.
// The value is fixed; external writers of the slot must preserve it.
const AttributeName = "theme"

// Default class names applied to the host shell when the caller
// supplies none.
const (
	DefaultDarkClassName  = "dark"
	DefaultLightClassName = "light"
)

// Value is an opaque theme description supplied by the caller. The
// store never interprets it; merging compares values structurally.
type Value = json.RawMessage

// PreviewConfig describes how the embedded content frame is located
// and mutated. When absent from a record, the frame surface is never
// touched.
type PreviewConfig struct {
	ClassTargetSelector     string `json:"classTargetSelector,omitempty"`
	AttributeTargetSelector string `json:"attributeTargetSelector,omitempty"`
	AttributeName           string `json:"attributeName,omitempty"`
	DarkAttributeValue      string `json:"darkAttributeValue,omitempty"`
	LightAttributeValue     string `json:"lightAttributeValue,omitempty"`
}

// Equal reports structural equality between two preview configs.
func (p *PreviewConfig) Equal(o *PreviewConfig) bool {
	if p == nil || o == nil {
		return p == o
	}
	return *p == *o
}

// AttributeValue returns the attribute value for the given mode.
func (p *PreviewConfig) AttributeValue(mode Mode) string {
	if p == nil {
		return ""
	}
	if mode.IsDark() {
		return p.DarkAttributeValue
	}
	return p.LightAttributeValue
}

// EffectiveAttributeName returns the attribute name to mutate,
// defaulting to the fixed literal when unset.
func (p *PreviewConfig) EffectiveAttributeName() string {
	if p == nil || p.AttributeName == "" {
		return AttributeName
	}
	return p.AttributeName
}

// PreferenceRecord is the single persisted entity. It is serialized
// as-is into the storage slot; field names form the wire contract.
type PreferenceRecord struct {
	Current        Mode           `json:"current"`
	DarkTheme      Value          `json:"darkTheme,omitempty"`
	LightTheme     Value          `json:"lightTheme,omitempty"`
	DarkClassName  string         `json:"darkClassName"`
	LightClassName string         `json:"lightClassName"`
	Preview        *PreviewConfig `json:"previewConfig,omitempty"`
}

// DefaultRecord returns the record created when nothing is persisted
// and the caller supplied no overrides.
func DefaultRecord() PreferenceRecord {
	return PreferenceRecord{
		Current:        ModeLight,
		DarkClassName:  DefaultDarkClassName,
		LightClassName: DefaultLightClassName,
	}
}

// ClassName returns the host-shell class for the given mode.
func (r PreferenceRecord) ClassName(mode Mode) string {
	if mode.IsDark() {
		return r.DarkClassName
	}
	return r.LightClassName
}

// ActiveTheme returns the opaque theme value for the given mode.
func (r PreferenceRecord) ActiveTheme(mode Mode) Value {
	if mode.IsDark() {
		return r.DarkTheme
	}
	return r.LightTheme
}

// EqualValues reports structural equality between two opaque theme
// values. Both nil means equal; otherwise the JSON is decoded and
// compared deeply so formatting differences do not count as changes.
func EqualValues(a, b Value) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return bytes.Equal(a, b)
	}
	return reflect.DeepEqual(av, bv)
}

// Overrides is the caller-supplied configuration merged by the store.
// Nil fields are "not supplied" and leave the stored value untouched.
type Overrides struct {
	Current    *Mode
	Dark       Value
	Light      Value
	DarkClass  *string
	LightClass *string
	Preview    *PreviewConfig
}

// Empty reports whether no override field is supplied.
func (o Overrides) Empty() bool {
	return o.Current == nil && len(o.Dark) == 0 && len(o.Light) == 0 &&
		o.DarkClass == nil && o.LightClass == nil && o.Preview == nil
}

// Merge applies the supplied override fields to the record, replacing
// stored values only when structurally different. Current is never
// touched; initial-mode selection is the store's concern at record
// creation and the resolver's afterwards.
func (r *PreferenceRecord) Merge(o Overrides) (changed bool) {
	if len(o.Dark) > 0 && !EqualValues(r.DarkTheme, o.Dark) {
		r.DarkTheme = o.Dark
		changed = true
	}
	if len(o.Light) > 0 && !EqualValues(r.LightTheme, o.Light) {
		r.LightTheme = o.Light
		changed = true
	}
	if o.DarkClass != nil && r.DarkClassName != *o.DarkClass {
		r.DarkClassName = *o.DarkClass
		changed = true
	}
	if o.LightClass != nil && r.LightClassName != *o.LightClass {
		r.LightClassName = *o.LightClass
		changed = true
	}
	if o.Preview != nil && !r.Preview.Equal(o.Preview) {
		pc := *o.Preview
		r.Preview = &pc
		changed = true
	}
	return changed
}
