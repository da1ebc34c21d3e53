// Package config holds all depgraph configuration, loaded from a YAML file
// with environment variable overrides. Missing files fall back to defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"depgraph/internal/logging"
)

// Config holds all depgraph configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Oracle / universe metadata configuration
	Oracle OracleConfig `yaml:"oracle"`

	// Graph build configuration
	Build BuildConfig `yaml:"build"`

	// Neighborhood HTTP front-end
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "depgraph",
		Version: "1.0.0",

		Oracle: OracleConfig{
			UniversePath: "data/universe.yaml",
			PrimaryRepo:  "rawhide",
		},

		Build: BuildConfig{
			GraphPath:       "data/graph.db",
			StructuralCheck: false,
		},

		Server: ServerConfig{
			Addr:            ":8080",
			MaxDepth:        10,
			AllowedOrigins:  []string{"*"},
			WatchGraphStore: true,
		},

		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			logging.Boot("Config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()
	logging.Boot("Config loaded: universe=%s graph=%s", cfg.Oracle.UniversePath, cfg.Build.GraphPath)

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("DEPGRAPH_UNIVERSE"); path != "" {
		c.Oracle.UniversePath = path
	}
	if repo := os.Getenv("DEPGRAPH_PRIMARY_REPO"); repo != "" {
		c.Oracle.PrimaryRepo = repo
	}
	if path := os.Getenv("DEPGRAPH_GRAPH_DB"); path != "" {
		c.Build.GraphPath = path
	}
	if addr := os.Getenv("DEPGRAPH_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("DEPGRAPH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		c.Logging.Enabled = true
	}
}

// LoggingOptions converts the logging section for logging.Initialize.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Enabled:    c.Logging.Enabled,
		Categories: c.Logging.Categories,
		Level:      c.Logging.Level,
		JSONFormat: c.Logging.JSONFormat,
	}
}
