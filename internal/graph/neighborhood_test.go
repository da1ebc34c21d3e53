package graph

import (
	"errors"
	"sort"
	"testing"
)

// chain builds a -> b -> c -> d with an extra green edge d -> a.
func chain() *Graph {
	g := New()
	g.AddEdge("a", "b", Red)
	g.AddEdge("b", "c", Red)
	g.AddEdge("c", "d", Red)
	g.AddEdge("d", "a", Green)
	return g
}

func nodeSet(g *Graph) []string {
	nodes := g.Nodes()
	sort.Strings(nodes)
	return nodes
}

func TestNeighborhoodDirected(t *testing.T) {
	g := chain()

	sub, err := g.Neighborhood("a", 2, false)
	if err != nil {
		t.Fatalf("Neighborhood failed: %v", err)
	}
	got := nodeSet(sub)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected nodes %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected nodes %v, got %v", want, got)
		}
	}
	// Induced edges: a->b and b->c only; c->d leaves the set.
	if sub.EdgeCount() != 2 {
		t.Errorf("expected 2 induced edges, got %d", sub.EdgeCount())
	}
}

func TestNeighborhoodUndirected(t *testing.T) {
	g := chain()

	sub, err := g.Neighborhood("a", 1, true)
	if err != nil {
		t.Fatalf("Neighborhood failed: %v", err)
	}
	// Undirected radius 1 from a reaches b (out) and d (in via d->a).
	if !sub.HasNode("b") || !sub.HasNode("d") || !sub.HasNode("a") {
		t.Fatalf("unexpected node set: %v", sub.Nodes())
	}
	if sub.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", sub.NodeCount())
	}
	// Induced edges keep their original direction and color.
	for _, e := range sub.Edges() {
		if e.From == "d" && e.To == "a" && e.Color != Green {
			t.Errorf("edge d->a lost its color: %v", e.Color)
		}
	}
}

func TestNeighborhoodRadiusZero(t *testing.T) {
	g := chain()
	sub, err := g.Neighborhood("b", 0, false)
	if err != nil {
		t.Fatalf("Neighborhood failed: %v", err)
	}
	if sub.NodeCount() != 1 || sub.EdgeCount() != 0 {
		t.Fatalf("radius 0 should isolate the root: %d nodes, %d edges",
			sub.NodeCount(), sub.EdgeCount())
	}
}

func TestNeighborhoodInducedParallelEdges(t *testing.T) {
	g := New()
	g.AddEdge("s", "b", Blue)
	g.AddEdge("s", "b", Blue)
	g.AddEdge("b", "s", Green)

	sub, err := g.Neighborhood("s", 1, false)
	if err != nil {
		t.Fatalf("Neighborhood failed: %v", err)
	}
	// Both endpoints reachable, so all three edges are induced, including the
	// reverse green one and the parallel blue pair.
	if sub.EdgeCount() != 3 {
		t.Errorf("expected 3 induced edges, got %d", sub.EdgeCount())
	}
}

func TestNeighborhoodErrors(t *testing.T) {
	g := chain()
	if _, err := g.Neighborhood("nope", 1, false); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
	if _, err := g.Neighborhood("a", -1, false); !errors.Is(err, ErrNegativeRadius) {
		t.Errorf("expected ErrNegativeRadius, got %v", err)
	}
}

func TestNeighborhoodCycle(t *testing.T) {
	g := New()
	g.AddEdge("x", "y", Red)
	g.AddEdge("y", "x", Red)

	sub, err := g.Neighborhood("x", 5, false)
	if err != nil {
		t.Fatalf("Neighborhood failed on cycle: %v", err)
	}
	if sub.NodeCount() != 2 || sub.EdgeCount() != 2 {
		t.Errorf("cycle mishandled: %d nodes, %d edges", sub.NodeCount(), sub.EdgeCount())
	}
}
