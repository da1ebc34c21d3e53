package config

// LoggingConfig controls the categorized file logger.
type LoggingConfig struct {
	// Enabled turns file logging on. Off by default; the CLI stays quiet.
	Enabled bool `yaml:"enabled"`

	// Categories filters log categories; unlisted categories are enabled.
	Categories map[string]bool `yaml:"categories"`

	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// JSONFormat switches log lines to structured JSON.
	JSONFormat bool `yaml:"json_format"`
}
