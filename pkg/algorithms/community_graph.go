package algorithms

import (
	"math"
)

// DefaultEdgeWeight is used for edges whose weight is absent (zero)
const DefaultEdgeWeight = 1.0

// Edge is an undirected weighted edge between two nodes.
// A Source equal to Target is a self-loop.
type Edge[N comparable] struct {
	Source N
	Target N
	Weight float64
}

// pairKey identifies an unordered node pair by position
type pairKey struct {
	lo, hi int
}

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// neighborhood is one node's adjacency row. order keeps neighbours in
// first-insertion order so iteration is deterministic.
type neighborhood struct {
	order  []int
	weight map[int]float64
}

// Graph is an undirected weighted graph with a symmetric adjacency index.
// Nodes are kept in insertion order and every node is addressed internally
// by its position in that order.
//
// A Graph is not safe for concurrent mutation, but concurrent readers are
// fine once construction is complete; detection never mutates its input.
type Graph[N comparable] struct {
	nodes  []N
	index  map[N]int
	edges  []Edge[N]
	edgeAt map[pairKey]int
	adj    []neighborhood
}

// NewGraph builds a graph from a node list and an edge list.
// Node ids must be unique and every edge endpoint must be in nodes.
func NewGraph[N comparable](nodes []N, edges []Edge[N]) (*Graph[N], error) {
	g := &Graph[N]{
		nodes:  make([]N, 0, len(nodes)),
		index:  make(map[N]int, len(nodes)),
		edges:  make([]Edge[N], 0, len(edges)),
		edgeAt: make(map[pairKey]int, len(edges)),
		adj:    make([]neighborhood, 0, len(nodes)),
	}

	for _, n := range nodes {
		if _, err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode registers a node and returns its position.
func (g *Graph[N]) AddNode(n N) (int, error) {
	if _, exists := g.index[n]; exists {
		return 0, NewError("AddNode").Node(n).Context("duplicate node").Cause(ErrInvalidInput).Err()
	}
	pos := len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.index[n] = pos
	g.adj = append(g.adj, neighborhood{weight: make(map[int]float64)})
	return pos, nil
}

// AddEdge inserts an edge, or overwrites the weight of the existing edge
// between the same unordered pair. A zero weight means "absent" and is
// stored as DefaultEdgeWeight.
func (g *Graph[N]) AddEdge(e Edge[N]) error {
	src, ok := g.index[e.Source]
	if !ok {
		return NewError("AddEdge").Node(e.Source).Context("unknown source").Cause(ErrInvalidInput).Err()
	}
	dst, ok := g.index[e.Target]
	if !ok {
		return NewError("AddEdge").Node(e.Target).Context("unknown target").Cause(ErrInvalidInput).Err()
	}
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
		return NewError("AddEdge").Node(e.Source).Context("non-finite weight %v", e.Weight).Cause(ErrInvalidInput).Err()
	}
	if e.Weight == 0 {
		e.Weight = DefaultEdgeWeight
	}
	g.putEdge(src, dst, e)
	return nil
}

// putEdge stores e between positions src and dst without validation
func (g *Graph[N]) putEdge(src, dst int, e Edge[N]) {
	key := makePairKey(src, dst)
	if at, exists := g.edgeAt[key]; exists {
		g.edges[at].Weight = e.Weight
	} else {
		g.edgeAt[key] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	g.link(src, dst, e.Weight)
	if src != dst {
		g.link(dst, src, e.Weight)
	}
}

func (g *Graph[N]) link(from, to int, w float64) {
	row := &g.adj[from]
	if _, exists := row.weight[to]; !exists {
		row.order = append(row.order, to)
	}
	row.weight[to] = w
}

// NodeCount returns the number of nodes
func (g *Graph[N]) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges, self-loops included
func (g *Graph[N]) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns a copy of the node list in insertion order
func (g *Graph[N]) Nodes() []N {
	out := make([]N, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edge records in insertion order
func (g *Graph[N]) Edges() []Edge[N] {
	out := make([]Edge[N], len(g.edges))
	copy(out, g.edges)
	return out
}

// HasNode reports whether n is part of the graph
func (g *Graph[N]) HasNode(n N) bool {
	_, ok := g.index[n]
	return ok
}

// Weight returns the weight of the edge between a and b.
// The second result is false when there is no such edge.
func (g *Graph[N]) Weight(a, b N) (float64, bool) {
	i, ok := g.index[a]
	if !ok {
		return 0, false
	}
	j, ok := g.index[b]
	if !ok {
		return 0, false
	}
	w, ok := g.adj[i].weight[j]
	return w, ok
}

// Neighbors returns the nodes adjacent to n, including n itself when it has
// a self-loop. Unknown nodes have no neighbours.
func (g *Graph[N]) Neighbors(n N) []N {
	i, ok := g.index[n]
	if !ok {
		return nil
	}
	out := make([]N, 0, len(g.adj[i].order))
	for _, j := range g.adj[i].order {
		out = append(out, g.nodes[j])
	}
	return out
}

// DegreeOf returns the sum of incident edge weights; a self-loop counts twice.
func (g *Graph[N]) DegreeOf(n N) float64 {
	i, ok := g.index[n]
	if !ok {
		return 0
	}
	return g.degreeAt(i)
}

// TotalWeight returns the sum of all edge weights, each edge counted once
func (g *Graph[N]) TotalWeight() float64 {
	total := 0.0
	for _, e := range g.edges {
		total += e.Weight
	}
	return total
}

// Subgraph returns the node-induced subgraph over nodes, keeping every edge
// whose endpoints are both selected.
func (g *Graph[N]) Subgraph(nodes []N) (*Graph[N], error) {
	sub, err := NewGraph[N](nodes, nil)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if !g.HasNode(n) {
			return nil, NewError("Subgraph").Node(n).Context("not in parent graph").Cause(ErrInvalidInput).Err()
		}
	}
	for _, e := range g.edges {
		if sub.HasNode(e.Source) && sub.HasNode(e.Target) {
			if err := sub.AddEdge(e); err != nil {
				return nil, err
			}
		}
	}
	return sub, nil
}

func (g *Graph[N]) degreeAt(i int) float64 {
	deg := 0.0
	for _, j := range g.adj[i].order {
		w := g.adj[i].weight[j]
		if j == i {
			w *= 2
		}
		deg += w
	}
	return deg
}

func (g *Graph[N]) selfLoopAt(i int) float64 {
	return g.adj[i].weight[i]
}
