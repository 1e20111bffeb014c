// Package config loads and validates the YAML configuration for the
// theme synchronizer: preference overrides, the storage backend for the
// persisted record, scheduling, the HTTP server, and optional NATS
// bridging.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Theme       ThemeConfig       `yaml:"theme"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Server      ServerConfig      `yaml:"server"`
	History     HistoryConfig     `yaml:"history"`
	NATS        NATSConfig        `yaml:"nats"`
	ColorScheme ColorSchemeConfig `yaml:"color_scheme"`
	Content     ContentConfig     `yaml:"content"`
}

// StorageConfig selects where the preference record is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // "file", "memory" or "nats"
	Path    string `yaml:"path,omitempty"`    // slot file path for the file backend
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ScheduleConfig switches the mode at fixed times of day. Both fields
// use "HH:MM" in local time; leaving them empty disables the schedule.
type ScheduleConfig struct {
	DarkAt  string `yaml:"dark_at,omitempty"`
	LightAt string `yaml:"light_at,omitempty"`
}

// ServerConfig configures the embedded HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// HistoryConfig configures the mode-change journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// NATSConfig configures the optional NATS bridge. When URL is empty the
// bridge is disabled; the "nats" storage backend also requires it.
type NATSConfig struct {
	URL            string `yaml:"url,omitempty"`
	Bucket         string `yaml:"bucket,omitempty"`
	CommandSubject string `yaml:"command_subject,omitempty"`
	PublishSubject string `yaml:"publish_subject,omitempty"`
}

// ColorSchemeConfig controls detection of the OS color-scheme preference.
type ColorSchemeConfig struct {
	Detect       bool          `yaml:"detect,omitempty"`
	Force        string        `yaml:"force,omitempty"` // "dark" or "light" overrides detection
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// ContentConfig points at the markdown content shown in the preview frame.
type ContentConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local if present; existing env vars win.
	_ = godotenv.Load(".env", ".env.local")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a configuration with all defaults applied, used when
// no config file is given.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = string(BackendFile)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultSlotPath()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath()
	}
	if c.NATS.Bucket == "" {
		c.NATS.Bucket = "themesync"
	}
	if c.NATS.CommandSubject == "" {
		c.NATS.CommandSubject = "themesync.mode.set"
	}
	if c.NATS.PublishSubject == "" {
		c.NATS.PublishSubject = "themesync.mode.changed"
	}
	if c.ColorScheme.PollInterval == 0 {
		c.ColorScheme.PollInterval = 5 * time.Second
	}
}

func defaultSlotPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/themesync/preferences.json"
	}
	return "preferences.json"
}

func defaultHistoryPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/themesync/history.db"
	}
	return "history.db"
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Theme: ThemeConfig{
			Current: "dark",
			Dark:    ThemeVariant{Value: `"catppuccin-mocha"`, ClassName: "dark"},
			Light:   ThemeVariant{Value: `"catppuccin-latte"`, ClassName: "light"},
			Preview: &PreviewParams{
				ClassTargetSelector:     "body",
				AttributeTargetSelector: "#preview",
				AttributeName:           "theme",
				DarkAttributeValue:      "dark",
				LightAttributeValue:     "light",
			},
		},
		Storage: StorageConfig{Backend: string(BackendFile), Path: "preferences.json"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Addr: ":8080"},
		History: HistoryConfig{Enabled: true, Path: "history.db"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
