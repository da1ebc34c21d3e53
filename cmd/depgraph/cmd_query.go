package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"depgraph/internal/graph"
	"depgraph/internal/store"
)

var (
	queryDepth      int
	queryUndirected bool
	queryFormat     string
	queryGraph      string
)

var queryCmd = &cobra.Command{
	Use:   "query <package>",
	Short: "Print the neighborhood of a package from a built graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show node and edge counts of the stored graph",
	RunE:  runInfo,
}

func openGraph() (*graph.Graph, error) {
	graphPath := cfg.Build.GraphPath
	if queryGraph != "" {
		graphPath = queryGraph
	}
	st, err := store.NewGraphStore(graphPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.LoadGraph()
}

func runQuery(cmd *cobra.Command, args []string) error {
	g, err := openGraph()
	if err != nil {
		return err
	}

	sub, err := g.Neighborhood(args[0], queryDepth, queryUndirected)
	if err != nil {
		return err
	}

	switch queryFormat {
	case "sigma":
		payload, err := sub.SigmaJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	case "summary":
		fmt.Printf("%s (depth %d, undirected=%v): %d nodes, %d edges\n",
			args[0], queryDepth, queryUndirected, sub.NodeCount(), sub.EdgeCount())
		for _, e := range sub.Edges() {
			fmt.Printf("  %s -[%s]-> %s\n", e.From, e.Color, e.To)
		}
	default:
		return fmt.Errorf("unknown format %q (want summary or sigma)", queryFormat)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	g, err := openGraph()
	if err != nil {
		return err
	}
	fmt.Printf("Graph with %d nodes and %d edges\n", g.NodeCount(), g.EdgeCount())
	return nil
}
