// Package config loads points console configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config is the full console configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Notify NotifyConfig `yaml:"notify"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig configures the points API gateway.
type APIConfig struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string `yaml:"base_url" env:"POINTS_API_BASE_URL"`
	// Delay is the artificial latency applied before every call.
	Delay time.Duration `yaml:"delay" env:"POINTS_API_DELAY"`
}

// NotifyConfig configures the notification channel.
type NotifyConfig struct {
	// TTL is how long a notification stays visible.
	TTL time.Duration `yaml:"ttl" env:"POINTS_NOTIFY_TTL"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"POINTS_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Delay:   300 * time.Millisecond,
		},
		Notify: NotifyConfig{TTL: 5 * time.Second},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads config/points.yaml and applies environment overrides.
func Load() (*Config, error) {
	return LoadFromPath(filepath.Join("config", "points.yaml"))
}

// LoadFromPath reads the configuration from a specific path and applies
// environment overrides.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration, falling back to defaults (plus
// environment overrides) when the file is missing.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = Default()
		// Environment still wins over the built-ins.
		_ = cfg.applyEnv()
	}
	return cfg
}

func (c *Config) applyEnv() error {
	// All env tags are optional; a clean environment is fine.
	if err := envdecode.Decode(c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("failed to decode environment: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Delay < 0 {
		return fmt.Errorf("api.delay must not be negative")
	}
	return nil
}
