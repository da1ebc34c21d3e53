// Package server is the HTTP front-end for neighborhood queries over a built
// dependency graph. It loads the graph snapshot from the store, serves the
// induced sub-multigraph around a package as sigma JSON, and optionally
// reloads the snapshot when the store file changes on disk.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"depgraph/internal/config"
	"depgraph/internal/graph"
	"depgraph/internal/logging"
	"depgraph/internal/store"
)

// Server serves neighborhood queries over the currently loaded graph.
type Server struct {
	cfg     config.ServerConfig
	store   *store.GraphStore
	metrics *Metrics
	current atomic.Pointer[graph.Graph]
}

// New loads the initial snapshot from the store and returns a ready server.
func New(cfg config.ServerConfig, st *store.GraphStore, m *Metrics) (*Server, error) {
	s := &Server{cfg: cfg, store: st, metrics: m}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Graph returns the currently loaded snapshot.
func (s *Server) Graph() *graph.Graph {
	return s.current.Load()
}

// Reload reads the snapshot from the store and swaps it in.
func (s *Server) Reload() error {
	g, err := s.store.LoadGraph()
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	s.current.Store(g)
	s.metrics.GraphNodes.Set(float64(g.NodeCount()))
	s.metrics.GraphEdges.Set(float64(g.EdgeCount()))
	s.metrics.GraphReloads.Inc()
	logging.Get(logging.CategoryServer).Info("graph loaded: %d nodes, %d edges",
		g.NodeCount(), g.EdgeCount())
	return nil
}

// Router builds the chi mux with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(s.requestLog)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/v1/neighborhood", s.handleNeighborhoodGet)
	r.Post("/api/v1/neighborhood", s.handleNeighborhoodPost)
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

// requestLog tags each request with an id and counts it.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.metrics.RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(sw.status)).Inc()
		logging.Get(logging.CategoryServer).Debug("req=%s %s %s -> %d (%v)",
			reqID, r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","nodes":%d,"edges":%d}`,
		s.Graph().NodeCount(), s.Graph().EdgeCount())
}

// neighborhoodRequest mirrors the web front-end's query body.
type neighborhoodRequest struct {
	PackageName string `json:"package_name"`
	Depth       int    `json:"depth"`
	Undirected  bool   `json:"undirected"`
}

func (s *Server) handleNeighborhoodGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := neighborhoodRequest{PackageName: q.Get("package")}
	if d := q.Get("depth"); d != "" {
		depth, err := strconv.Atoi(d)
		if err != nil {
			httpError(w, http.StatusBadRequest, "depth must be an integer")
			return
		}
		req.Depth = depth
	}
	if u := q.Get("undirected"); u != "" {
		und, err := strconv.ParseBool(u)
		if err != nil {
			httpError(w, http.StatusBadRequest, "undirected must be a boolean")
			return
		}
		req.Undirected = und
	}
	s.serveNeighborhood(w, req)
}

func (s *Server) handleNeighborhoodPost(w http.ResponseWriter, r *http.Request) {
	var req neighborhoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.serveNeighborhood(w, req)
}

func (s *Server) serveNeighborhood(w http.ResponseWriter, req neighborhoodRequest) {
	if req.PackageName == "" {
		httpError(w, http.StatusBadRequest, "package name required")
		return
	}
	if s.cfg.MaxDepth > 0 && req.Depth > s.cfg.MaxDepth {
		httpError(w, http.StatusBadRequest,
			fmt.Sprintf("depth exceeds maximum %d", s.cfg.MaxDepth))
		return
	}

	sub, err := s.Graph().Neighborhood(req.PackageName, req.Depth, req.Undirected)
	switch {
	case errors.Is(err, graph.ErrNodeNotFound):
		httpError(w, http.StatusNotFound,
			fmt.Sprintf("package %q not in graph", req.PackageName))
		return
	case errors.Is(err, graph.ErrNegativeRadius):
		httpError(w, http.StatusBadRequest, "depth must be non-negative")
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload, err := sub.SigmaJSON()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Run serves HTTP until the context is canceled, watching the graph store
// for snapshot changes when configured to.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Get(logging.CategoryServer).Info("listening on %s", s.cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if s.cfg.WatchGraphStore {
		g.Go(func() error {
			return s.watchStore(ctx)
		})
	}

	return g.Wait()
}

// watchStore reloads the snapshot whenever the store file is rewritten.
func (s *Server) watchStore(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	path := s.store.Path()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	log := logging.Get(logging.CategoryServer)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Info("graph store changed, reloading")
			if err := s.Reload(); err != nil {
				log.Error("reload failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error: %v", err)
		}
	}
}
