package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"depgraph/internal/builder"
	"depgraph/internal/graph"
	"depgraph/internal/repodata"
	"depgraph/internal/resolver"
	"depgraph/internal/store"
)

var (
	buildUniverse string
	buildOut      string
	buildCheck    bool
	buildPlain    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dependency graph for the configured universe",
	Long: `Build iterates every available package, resolves its capability
tokens onto concrete binary packages and writes the resulting typed
multigraph to the SQLite graph store.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	universePath := cfg.Oracle.UniversePath
	if buildUniverse != "" {
		universePath = buildUniverse
	}
	graphPath := cfg.Build.GraphPath
	if buildOut != "" {
		graphPath = buildOut
	}
	check := cfg.Build.StructuralCheck || buildCheck

	runID := uuid.NewString()[:8]
	logger.Info("starting build",
		zap.String("run_id", runID),
		zap.String("universe", universePath),
		zap.String("graph", graphPath))

	start := time.Now()
	universe, err := repodata.Load(universePath)
	if err != nil {
		return err
	}

	res := resolver.New(universe)
	b := builder.New(universe, res)
	b.SetStructuralCheck(check)

	total := len(universe.IterateAvailable())
	fmt.Printf("Packages to process: %d\n", total)

	var built *graph.Graph
	if buildPlain {
		b.SetProgressFunc(plainProgress(total))
		built, err = b.Build()
	} else {
		built, err = runBuildWithProgress(b)
	}
	if err != nil {
		return err
	}

	st, err := store.NewGraphStore(graphPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveGraph(built); err != nil {
		return err
	}

	fmt.Printf("Graph with %d nodes and %d edges\n", built.NodeCount(), built.EdgeCount())
	fmt.Printf("Total seconds: %.2f\n", time.Since(start).Seconds())
	fmt.Printf("Cache size: %d\n", res.CacheSize())
	fmt.Println("Stats")
	fmt.Println(renderStats(res.Stats()))

	logger.Info("build finished",
		zap.String("run_id", runID),
		zap.Int("nodes", built.NodeCount()),
		zap.Int("edges", built.EdgeCount()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// plainProgress prints a line every thousand packages, matching the builder's
// internal stats cadence.
func plainProgress(total int) builder.ProgressFunc {
	return func(done, _ int) {
		if done%1000 == 0 || done == total {
			fmt.Printf("  %d/%d\n", done, total)
		}
	}
}
