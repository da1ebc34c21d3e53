package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"depgraph/internal/server"
	"depgraph/internal/store"
)

var (
	serveAddr  string
	serveGraph string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve neighborhood queries over a built graph",
	Long: `Serve loads the graph snapshot from the SQLite store and answers
neighborhood queries over HTTP: the sub-multigraph reachable from a package
within a radius, directed or undirected, as sigma JSON. The snapshot is
reloaded automatically when the store file changes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	serverCfg := cfg.Server
	if serveAddr != "" {
		serverCfg.Addr = serveAddr
	}
	graphPath := cfg.Build.GraphPath
	if serveGraph != "" {
		graphPath = serveGraph
	}

	st, err := store.NewGraphStore(graphPath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(serverCfg, st, server.NewMetrics())
	if err != nil {
		return err
	}

	logger.Info("serving neighborhood queries",
		zap.String("addr", serverCfg.Addr),
		zap.String("graph", graphPath),
		zap.Int("nodes", srv.Graph().NodeCount()),
		zap.Int("edges", srv.Graph().EdgeCount()))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
