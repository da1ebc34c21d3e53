package config

// OracleConfig locates the package universe metadata and carries a primary
// repository label.
type OracleConfig struct {
	// UniversePath is the YAML or JSON metadata dump to index.
	UniversePath string `yaml:"universe_path"`

	// PrimaryRepo is loaded and overridable from the environment, but the
	// build command does not read it: the direct filters are scoped by the
	// primary_repo field of the universe dump itself.
	PrimaryRepo string `yaml:"primary_repo"`
}
