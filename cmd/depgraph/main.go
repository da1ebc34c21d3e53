// Package main implements the depgraph CLI - a dependency graph builder and
// neighborhood query service for binary/source package universes.
//
// This file serves as the entry point and command registration hub. The
// command implementations are split across cmd_*.go files:
//
//   - cmd_build.go - buildCmd, runBuild(): resolve the universe into a graph
//   - cmd_serve.go - serveCmd, runServe(): HTTP neighborhood front-end
//   - cmd_query.go - queryCmd, infoCmd: offline queries against a saved graph
//   - progress.go  - bubbletea progress bar for the build run
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"depgraph/internal/config"
	"depgraph/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Loaded configuration, available to every command after PersistentPreRunE.
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "depgraph",
	Short: "depgraph - package dependency graph builder and query service",
	Long: `depgraph builds a global dependency graph for a package universe of
binary and source packages, then serves interactive neighborhood queries
over it.

Capability tokens (names, virtual provides, file paths, versioned
constraints) are resolved onto concrete binary packages through a probe
pipeline with a transaction-solver fallback; the resulting typed edges
(blue: source builds binary, green: build-requires, red: runtime-requires)
form a directed multigraph persisted in SQLite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize zap logger for CLI output
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// Initialize internal file-based logging for telemetry/debugging
		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws, cfg.LoggingOptions()); err != nil {
			// Don't fail hard on logging init, but warn
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "depgraph.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	// Build flags
	buildCmd.Flags().StringVar(&buildUniverse, "universe", "", "Universe metadata file (overrides config)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Graph database path (overrides config)")
	buildCmd.Flags().BoolVar(&buildCheck, "check", false, "Enable structural source-contamination diagnostics")
	buildCmd.Flags().BoolVar(&buildPlain, "plain", false, "Plain-text progress instead of the progress bar")

	// Serve flags
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveGraph, "graph", "", "Graph database path (overrides config)")

	// Query flags
	queryCmd.Flags().IntVar(&queryDepth, "depth", 1, "Neighborhood radius")
	queryCmd.Flags().BoolVar(&queryUndirected, "undirected", false, "Follow edges in both directions")
	queryCmd.Flags().StringVar(&queryFormat, "format", "summary", "Output format: summary or sigma")
	queryCmd.Flags().StringVar(&queryGraph, "graph", "", "Graph database path (overrides config)")
	infoCmd.Flags().StringVar(&queryGraph, "graph", "", "Graph database path (overrides config)")

	rootCmd.AddCommand(buildCmd, serveCmd, queryCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
