package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".artspot"
	configFileName = "config.yaml"
)

// Config holds all artspot configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Found    FoundConfig    `yaml:"found"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	UI       UIConfig       `yaml:"ui"`
}

// DataConfig selects where artworks come from.
type DataConfig struct {
	Source  string `yaml:"source"` // http(s) URL or file path; empty uses the bundled dataset
	Timeout string `yaml:"timeout"`
}

// FoundConfig configures found-state persistence.
type FoundConfig struct {
	StorePath string `yaml:"store_path"`
	Key       string `yaml:"key"`
	Retention string `yaml:"retention"`
}

type GeocoderConfig struct {
	Region  string `yaml:"region"`
	Timeout string `yaml:"timeout"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	SentryDSN string `yaml:"sentry_dsn"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty logs to stderr (CLI) or nowhere (TUI)
}

type UIConfig struct {
	Theme string `yaml:"theme"` // classic, neon, mono
}

// Dir is the per-user state directory (~/.artspot).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is ~/.artspot/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Timeout: "10s",
		},
		Found: FoundConfig{
			Key:       "found_artworks",
			Retention: "720h",
		},
		Geocoder: GeocoderConfig{
			Region:  "uk",
			Timeout: "10s",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		UI: UIConfig{
			Theme: "classic",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("ARTSPOT_DATA_SOURCE")); v != "" {
		c.Data.Source = v
	}
	if v := strings.TrimSpace(os.Getenv("ARTSPOT_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("ARTSPOT_SENTRY_DSN")); v != "" {
		c.Server.SentryDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("ARTSPOT_ADDR")); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks that every duration field parses.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"data.timeout":     c.Data.Timeout,
		"found.retention":  c.Found.Retention,
		"geocoder.timeout": c.Geocoder.Timeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	return nil
}

// FetchTimeout returns the data feed timeout.
func (c DataConfig) FetchTimeout() time.Duration { return durationOr(c.Timeout, 10*time.Second) }

// RetentionPeriod returns how long the found set is kept after its last change.
func (c FoundConfig) RetentionPeriod() time.Duration { return durationOr(c.Retention, 30*24*time.Hour) }

// ResolvedStorePath returns the configured store path or ~/.artspot/state.json.
func (c FoundConfig) ResolvedStorePath() (string, error) {
	if c.StorePath != "" {
		return c.StorePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}

func (c GeocoderConfig) RequestTimeout() time.Duration { return durationOr(c.Timeout, 10*time.Second) }

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
