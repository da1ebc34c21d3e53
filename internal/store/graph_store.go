// Package store persists the finished dependency graph in SQLite so the
// neighborhood front-end can reload it without rebuilding. The whole graph is
// written in one transaction and replaces any previous snapshot.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"depgraph/internal/graph"
	"depgraph/internal/logging"
)

// GraphStore wraps the SQLite database holding one graph snapshot.
type GraphStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewGraphStore opens (or creates) the database at the given path.
// ":memory:" is accepted for tests.
func NewGraphStore(path string) (*GraphStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewGraphStore")
	defer timer.Stop()

	logging.Store("Opening graph store at %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &GraphStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *GraphStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			id   INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS edges (
			src   INTEGER NOT NULL REFERENCES nodes(id),
			dst   INTEGER NOT NULL REFERENCES nodes(id),
			color TEXT NOT NULL,
			seq   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_edges_seq ON edges(seq);
	`)
	return err
}

// Path returns the database file path the store was opened with.
func (s *GraphStore) Path() string { return s.dbPath }

// SaveGraph replaces the stored snapshot with g.
func (s *GraphStore) SaveGraph(g *graph.Graph) error {
	timer := logging.StartTimer(logging.CategoryStore, "SaveGraph")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	logging.Store("Saving graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM edges"); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	insNode, err := tx.Prepare("INSERT INTO nodes (id, name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer insNode.Close()
	for id, name := range g.Nodes() {
		if _, err := insNode.Exec(id, name); err != nil {
			return fmt.Errorf("failed to insert node %q: %w", name, err)
		}
	}

	insEdge, err := tx.Prepare("INSERT INTO edges (src, dst, color, seq) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer insEdge.Close()
	index := make(map[string]int, g.NodeCount())
	for id, name := range g.Nodes() {
		index[name] = id
	}
	for seq, e := range g.Edges() {
		if _, err := insEdge.Exec(index[e.From], index[e.To], e.Color.String(), seq); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.From, e.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit graph: %w", err)
	}
	logging.StoreDebug("Graph saved")
	return nil
}

// LoadGraph reads the stored snapshot back. An empty database yields an
// empty graph.
func (s *GraphStore) LoadGraph() (*graph.Graph, error) {
	timer := logging.StartTimer(logging.CategoryStore, "LoadGraph")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[int64]string)
	var order []int64
	rows, err := s.db.Query("SELECT id, name FROM nodes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		names[id] = name
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("node rows failed: %w", err)
	}
	rows.Close()

	g := graph.New()
	for _, id := range order {
		g.AddNode(names[id])
	}

	rows, err = s.db.Query("SELECT src, dst, color FROM edges ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var src, dst int64
		var colorName string
		if err := rows.Scan(&src, &dst, &colorName); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		color, err := graph.ParseColor(colorName)
		if err != nil {
			return nil, fmt.Errorf("corrupt edge row: %w", err)
		}
		from, ok := names[src]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node id %d", src)
		}
		to, ok := names[dst]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node id %d", dst)
		}
		g.AddEdge(from, to, color)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("edge rows failed: %w", err)
	}

	logging.StoreDebug("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	return g, nil
}

// Close releases the database handle.
func (s *GraphStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
