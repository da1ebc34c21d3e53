// Package builder drives the resolver over every package in the universe and
// accumulates the typed dependency edges into a directed multigraph. Source
// packages contribute blue edges to the binaries they build and green edges
// from their build-requires; binaries contribute red edges from their
// runtime-requires.
package builder

import (
	"fmt"
	"sync/atomic"
	"time"

	"depgraph/internal/graph"
	"depgraph/internal/logging"
	"depgraph/internal/model"
	"depgraph/internal/oracle"
	"depgraph/internal/resolver"
)

// Builder states. A builder runs exactly one build.
const (
	stateIdle int32 = iota
	stateBuilding
	stateDone
)

// ErrBuildAlreadyRan reports a second Build call on the same instance.
var ErrBuildAlreadyRan = fmt.Errorf("builder: build already ran on this instance")

// statsEvery is how many packages pass between cache/stats log snapshots.
const statsEvery = 1000

// ProgressFunc receives (processed, total) after each package.
type ProgressFunc func(done, total int)

// Builder constructs the dependency graph for one universe.
type Builder struct {
	oracle   oracle.Oracle
	res      *resolver.Resolver
	state    atomic.Int32
	check    bool
	progress ProgressFunc
}

// New returns an idle builder over the given oracle and resolver.
func New(o oracle.Oracle, r *resolver.Resolver) *Builder {
	return &Builder{oracle: o, res: r}
}

// SetStructuralCheck enables the advisory source-contamination diagnostics.
func (b *Builder) SetStructuralCheck(on bool) { b.check = on }

// SetProgressFunc installs a per-package progress callback.
func (b *Builder) SetProgressFunc(f ProgressFunc) { b.progress = f }

// Build enumerates every available package once and returns the finished
// graph. Fatal resolver errors abort the build; no partial graph is returned.
// A builder instance runs one build; subsequent calls fail.
func (b *Builder) Build() (*graph.Graph, error) {
	if !b.state.CompareAndSwap(stateIdle, stateBuilding) {
		return nil, ErrBuildAlreadyRan
	}
	defer b.state.Store(stateDone)

	log := logging.Get(logging.CategoryBuilder)
	start := time.Now()

	g := graph.New()
	queue := b.oracle.IterateAvailable()
	total := len(queue)
	log.Info("packages to process: %d", total)

	for i, p := range queue {
		if err := b.processPackage(g, p); err != nil {
			log.Error("build aborted at %s: %v", p, err)
			return nil, err
		}

		if i%statsEvery == 0 {
			log.Info("progress %d/%d cache=%d", i, total, b.res.CacheSize())
			log.Info("stats %s", b.res.Stats())
		}
		if b.progress != nil {
			b.progress(i+1, total)
		}
	}

	log.Info("graph with %d nodes and %d edges", g.NodeCount(), g.EdgeCount())
	log.Info("total seconds: %.2f", time.Since(start).Seconds())
	log.Info("cache size: %d", b.res.CacheSize())
	log.Info("stats %s", b.res.Stats())
	return g, nil
}

func (b *Builder) processPackage(g *graph.Graph, p *model.Package) error {
	if p.IsSource {
		// Source provides: the binaries this source builds.
		rpms, err := b.res.Provides(p)
		if err != nil {
			return err
		}
		b.structuralCheck(p, "provides", rpms)
		for _, rpm := range rpms {
			g.AddEdge(p.Name, rpm.Name, graph.Blue)
		}

		// Source build-requires.
		rpms, err = b.res.Requires(p)
		if err != nil {
			return err
		}
		b.structuralCheck(p, "build requires", rpms)
		for _, rpm := range rpms {
			g.AddEdge(rpm.Name, p.Name, graph.Green)
		}
		return nil
	}

	// Binary runtime-requires.
	rpms, err := b.res.Requires(p)
	if err != nil {
		return err
	}
	b.structuralCheck(p, "requires", rpms)
	for _, rpm := range rpms {
		g.AddEdge(rpm.Name, p.Name, graph.Red)
	}
	return nil
}

// structuralCheck logs a diagnostic when a resolved set contains a source
// package where none may appear. Advisory only; never aborts the build.
func (b *Builder) structuralCheck(p *model.Package, what string, set []*model.Package) {
	if !b.check {
		return
	}
	if resolver.ContainsSource(set) {
		logging.Get(logging.CategoryBuilder).Warn(
			"error during handling %s - %s contains a source package: %v", p, what, names(set))
	}
}

func names(pkgs []*model.Package) []string {
	res := make([]string, len(pkgs))
	for i, p := range pkgs {
		res[i] = p.Name
	}
	return res
}
