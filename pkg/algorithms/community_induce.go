package algorithms

// Induce builds the coarsened graph of g under p. Its nodes are p's
// community ids in first-seen order; each edge of g is mapped onto the pair
// of communities of its endpoints and weights of edges landing on the same
// pair are summed. Edges inside a community become self-loops, so the total
// edge weight is preserved.
func Induce[N comparable](p *Partition[N], g *Graph[N]) (*Graph[int], error) {
	for _, n := range g.nodes {
		if _, ok := p.community[n]; !ok {
			return nil, NewError("Induce").Node(n).Context("node not in partition").Cause(ErrMissingKey).Err()
		}
	}

	induced, err := NewGraph[int](p.communityOrder(), nil)
	if err != nil {
		return nil, err
	}

	for _, e := range g.edges {
		src := induced.index[p.community[e.Source]]
		dst := induced.index[p.community[e.Target]]

		// Accumulate through the adjacency row; putEdge skips the zero default
		weight := e.Weight + induced.adj[src].weight[dst]
		induced.putEdge(src, dst, Edge[int]{
			Source: induced.nodes[src],
			Target: induced.nodes[dst],
			Weight: weight,
		})
	}
	return induced, nil
}
