package graph

// Neighborhood returns the sub-multigraph induced by the nodes reachable from
// root within radius hops. Directed mode follows outgoing edges only;
// undirected mode follows edges in both orientations. All edges whose
// endpoints are both reachable are included, colors preserved. Radius 0
// yields a single-node graph.
func (g *Graph) Neighborhood(root string, radius int, undirected bool) (*Graph, error) {
	if radius < 0 {
		return nil, ErrNegativeRadius
	}
	rootID, ok := g.index[root]
	if !ok {
		return nil, ErrNodeNotFound
	}

	reached := []int32{rootID}
	inSet := make([]bool, len(g.names))
	inSet[rootID] = true

	frontier := []int32{rootID}
	for depth := 0; depth < radius && len(frontier) > 0; depth++ {
		var next []int32
		for _, id := range frontier {
			for _, ei := range g.out[id] {
				if to := g.edges[ei].To; !inSet[to] {
					inSet[to] = true
					reached = append(reached, to)
					next = append(next, to)
				}
			}
			if !undirected {
				continue
			}
			for _, ei := range g.in[id] {
				if from := g.edges[ei].From; !inSet[from] {
					inSet[from] = true
					reached = append(reached, from)
					next = append(next, from)
				}
			}
		}
		frontier = next
	}

	sub := New()
	for _, id := range reached {
		sub.intern(g.names[id])
	}
	for _, e := range g.edges {
		if inSet[e.From] && inSet[e.To] {
			sub.AddEdge(g.names[e.From], g.names[e.To], e.Color)
		}
	}
	return sub, nil
}
