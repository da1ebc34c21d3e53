package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"depgraph/internal/graph"
)

func testGraph() *graph.Graph {
	g := graph.New()
	g.AddEdge("app-src", "app", graph.Blue)
	g.AddEdge("liba", "app-src", graph.Green)
	g.AddEdge("liba", "app", graph.Red)
	g.AddEdge("liba", "app", graph.Red) // parallel edge survives the round trip
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := NewGraphStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to create graph store: %v", err)
	}
	defer s.Close()

	want := testGraph()
	if err := s.SaveGraph(want); err != nil {
		t.Fatalf("SaveGraph failed: %v", err)
	}

	got, err := s.LoadGraph()
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if diff := cmp.Diff(want.Nodes(), got.Nodes()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Edges(), got.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	s, err := NewGraphStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to create graph store: %v", err)
	}
	defer s.Close()

	if err := s.SaveGraph(testGraph()); err != nil {
		t.Fatalf("first SaveGraph failed: %v", err)
	}

	small := graph.New()
	small.AddEdge("x", "y", graph.Red)
	if err := s.SaveGraph(small); err != nil {
		t.Fatalf("second SaveGraph failed: %v", err)
	}

	got, err := s.LoadGraph()
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Errorf("old snapshot leaked: %d nodes, %d edges", got.NodeCount(), got.EdgeCount())
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s, err := NewGraphStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to create graph store: %v", err)
	}
	defer s.Close()

	g, err := s.LoadGraph()
	if err != nil {
		t.Fatalf("LoadGraph on empty store failed: %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "graph.db")

	s, err := NewGraphStore(path)
	if err != nil {
		t.Fatalf("Failed to create graph store: %v", err)
	}
	if err := s.SaveGraph(testGraph()); err != nil {
		t.Fatalf("SaveGraph failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen and read the persisted snapshot.
	s2, err := NewGraphStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadGraph()
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if got.EdgeCount() != 4 {
		t.Errorf("expected 4 edges after reopen, got %d", got.EdgeCount())
	}
}
