// Package config provides configuration loading and management for kcmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dkahdian/kcmap/propagate"
)

// Config represents the complete kcmap configuration
type Config struct {
	Dataset     DatasetConfig     `yaml:"dataset"`
	Propagation PropagationConfig `yaml:"propagation"`
	Watch       WatchConfig       `yaml:"watch"`
	Log         LogConfig         `yaml:"log"`
}

// DatasetConfig configures where the knowledge base document lives
type DatasetConfig struct {
	// Path is the dataset JSON file
	Path string `yaml:"path"`
}

// PropagationConfig configures the derivation engine
type PropagationConfig struct {
	// MaxIterations caps the fixed-point loop (default: 50)
	MaxIterations int `yaml:"max_iterations"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-propagating
	Debounce time.Duration `yaml:"debounce"`
	// Patterns are globs a changed path must match to trigger a run
	// (default: **/*.json)
	Patterns []string `yaml:"patterns"`
	// MetricsAddr is the listen address for /metrics and /healthz
	// (default: :9090)
	MetricsAddr string `yaml:"metrics_addr"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: "data/database.json",
		},
		Propagation: PropagationConfig{
			MaxIterations: propagate.DefaultMaxIterations,
		},
		Watch: WatchConfig{
			Debounce:    500 * time.Millisecond,
			Patterns:    []string{"**/*.json"},
			MetricsAddr: ":9090",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Propagation.MaxIterations <= 0 {
		return fmt.Errorf("propagation.max_iterations must be positive")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Dataset.Path != "" {
		c.Dataset.Path = other.Dataset.Path
	}
	if other.Propagation.MaxIterations != 0 {
		c.Propagation.MaxIterations = other.Propagation.MaxIterations
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Patterns) > 0 {
		c.Watch.Patterns = other.Watch.Patterns
	}
	if other.Watch.MetricsAddr != "" {
		c.Watch.MetricsAddr = other.Watch.MetricsAddr
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
