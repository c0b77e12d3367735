package algorithms

// ClusteringCoefficient computes the local clustering coefficient of every node:
// the fraction of pairs of distinct neighbours that are themselves adjacent.
// Self-loops are ignored and edge weights do not count.
func ClusteringCoefficient[N comparable](g *Graph[N]) map[N]float64 {
	coefficients := make(map[N]float64, len(g.nodes))
	for i, n := range g.nodes {
		coefficients[n] = g.clusteringAt(i)
	}
	return coefficients
}

func (g *Graph[N]) clusteringAt(i int) float64 {
	neighbors := make([]int, 0, len(g.adj[i].order))
	for _, j := range g.adj[i].order {
		if j != i {
			neighbors = append(neighbors, j)
		}
	}

	k := len(neighbors)
	if k < 2 {
		return 0.0
	}

	// Check pairs with O(1) lookups in the neighbour's adjacency row
	triangles := 0
	for a := 0; a < k; a++ {
		row := g.adj[neighbors[a]].weight
		for b := a + 1; b < k; b++ {
			if _, ok := row[neighbors[b]]; ok {
				triangles++
			}
		}
	}

	possibleTriangles := k * (k - 1) / 2
	return float64(triangles) / float64(possibleTriangles)
}

// AverageClusteringCoefficient computes the mean local clustering coefficient
func AverageClusteringCoefficient[N comparable](g *Graph[N]) float64 {
	if len(g.nodes) == 0 {
		return 0.0
	}

	sum := 0.0
	for i := range g.nodes {
		sum += g.clusteringAt(i)
	}
	return sum / float64(len(g.nodes))
}
