package graph

import "encoding/json"

// Sigma JSON is the exchange format the web front-end consumes: a flat node
// list keyed by package name and an edge list carrying the color attribute.

type sigmaAttributes struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Multi          bool   `json:"multi"`
	AllowSelfLoops bool   `json:"allowSelfLoops"`
}

type sigmaNode struct {
	Key string `json:"key"`
}

type sigmaEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Color  string `json:"color"`
}

type sigmaDoc struct {
	Attributes sigmaAttributes `json:"attributes"`
	Nodes      []sigmaNode     `json:"nodes"`
	Edges      []sigmaEdge     `json:"edges"`
}

// SigmaJSON serializes the graph for the neighborhood front-end.
func (g *Graph) SigmaJSON() ([]byte, error) {
	doc := sigmaDoc{
		Attributes: sigmaAttributes{
			Name:           "depgraph",
			Type:           "directed",
			Multi:          true,
			AllowSelfLoops: true,
		},
		Nodes: make([]sigmaNode, 0, len(g.names)),
		Edges: make([]sigmaEdge, 0, len(g.edges)),
	}
	for _, name := range g.names {
		doc.Nodes = append(doc.Nodes, sigmaNode{Key: name})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, sigmaEdge{
			Source: g.names[e.From],
			Target: g.names[e.To],
			Color:  e.Color.String(),
		})
	}
	return json.Marshal(doc)
}
