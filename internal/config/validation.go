package config

import (
	"fmt"
	"time"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := &configurationValidator{config: cfg}
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateTheme(); err != nil {
		return err
	}
	if err := cv.validateStorage(); err != nil {
		return err
	}
	if err := cv.validateSchedule(); err != nil {
		return err
	}
	return cv.validateColorScheme()
}

func (cv *configurationValidator) validateTheme() error {
	if _, err := cv.config.Theme.Overrides(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid theme section").
			UserAction().
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateStorage() error {
	backend, err := ParseBackend(cv.config.Storage.Backend)
	if err != nil {
		return ferrors.ConfigError(fmt.Sprintf("unknown storage backend %q", cv.config.Storage.Backend)).
			UserAction().
			Build()
	}

	switch backend {
	case BackendFile:
		if cv.config.Storage.Path == "" {
			return ferrors.ConfigError("file storage backend requires storage.path").
				UserAction().
				Build()
		}
	case BackendNATS:
		if cv.config.NATS.URL == "" {
			return ferrors.ConfigError("nats storage backend requires nats.url").
				UserAction().
				Build()
		}
	}

	return nil
}

func (cv *configurationValidator) validateSchedule() error {
	for _, at := range []struct {
		field string
		value string
	}{
		{"schedule.dark_at", cv.config.Schedule.DarkAt},
		{"schedule.light_at", cv.config.Schedule.LightAt},
	} {
		if at.value == "" {
			continue
		}
		if _, err := time.Parse("15:04", at.value); err != nil {
			return ferrors.ConfigError(fmt.Sprintf("%s must be HH:MM, got %q", at.field, at.value)).
				UserAction().
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateColorScheme() error {
	if force := cv.config.ColorScheme.Force; force != "" && force != "dark" && force != "light" {
		return ferrors.ConfigError(fmt.Sprintf("color_scheme.force must be dark or light, got %q", force)).
			UserAction().
			Build()
	}
	return nil
}
