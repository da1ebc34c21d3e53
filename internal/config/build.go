package config

// BuildConfig controls the graph construction run.
type BuildConfig struct {
	// GraphPath is the SQLite file the finished graph is written to.
	GraphPath string `yaml:"graph_path"`

	// StructuralCheck enables advisory source-contamination diagnostics
	// after each extractor call.
	StructuralCheck bool `yaml:"structural_check"`
}
