package config

import (
	"encoding/json"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// ThemeConfig carries startup overrides for the persisted preference
// record. The current mode override is only consulted while resolving
// the initial mode; the rest is merged into the record on every load.
type ThemeConfig struct {
	Current string         `yaml:"current,omitempty"`
	Dark    ThemeVariant   `yaml:"dark,omitempty"`
	Light   ThemeVariant   `yaml:"light,omitempty"`
	Preview *PreviewParams `yaml:"preview,omitempty"`
}

// ThemeVariant configures one side of the dark/light pair.
type ThemeVariant struct {
	Value     string `yaml:"value,omitempty"`      // theme value, JSON or plain string
	ClassName string `yaml:"class_name,omitempty"` // class applied to the shell
}

// PreviewParams configures the embedded frame's toggle targets.
type PreviewParams struct {
	ClassTargetSelector     string `yaml:"class_target_selector,omitempty"`
	AttributeTargetSelector string `yaml:"attribute_target_selector,omitempty"`
	AttributeName           string `yaml:"attribute_name,omitempty"`
	DarkAttributeValue      string `yaml:"dark_attribute_value,omitempty"`
	LightAttributeValue     string `yaml:"light_attribute_value,omitempty"`
}

// Overrides converts the theme section into record overrides.
func (tc ThemeConfig) Overrides() (theme.Overrides, error) {
	var o theme.Overrides

	if tc.Current != "" {
		mode, err := theme.ParseMode(tc.Current)
		if err != nil {
			return theme.Overrides{}, err
		}
		o.Current = &mode
	}

	var err error
	if o.Dark, err = variantValue(tc.Dark.Value); err != nil {
		return theme.Overrides{}, err
	}
	if o.Light, err = variantValue(tc.Light.Value); err != nil {
		return theme.Overrides{}, err
	}

	if tc.Dark.ClassName != "" {
		name := tc.Dark.ClassName
		o.DarkClass = &name
	}
	if tc.Light.ClassName != "" {
		name := tc.Light.ClassName
		o.LightClass = &name
	}

	if tc.Preview != nil {
		o.Preview = &theme.PreviewConfig{
			ClassTargetSelector:     tc.Preview.ClassTargetSelector,
			AttributeTargetSelector: tc.Preview.AttributeTargetSelector,
			AttributeName:           tc.Preview.AttributeName,
			DarkAttributeValue:      tc.Preview.DarkAttributeValue,
			LightAttributeValue:     tc.Preview.LightAttributeValue,
		}
	}

	return o, nil
}

// variantValue interprets a configured theme value. Valid JSON passes
// through untouched; anything else is treated as a plain string.
func variantValue(raw string) (theme.Value, error) {
	if raw == "" {
		return nil, nil
	}
	if json.Valid([]byte(raw)) {
		return theme.Value(raw), nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "encode theme value").Build()
	}
	return theme.Value(encoded), nil
}
