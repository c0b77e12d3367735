package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTriangles(t *testing.T) *Graph[int] {
	t.Helper()

	g, err := NewGraph([]int{0, 1, 2, 3, 4, 5}, []Edge[int]{
		{0, 1, 1}, {1, 2, 1}, {0, 2, 1},
		{3, 4, 1}, {4, 5, 1}, {3, 5, 1},
	})
	require.NoError(t, err)
	return g
}

func TestNewGraph_Adjacency(t *testing.T) {
	g, err := NewGraph([]string{"a", "b", "c"}, []Edge[string]{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "c", Weight: 1.5},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	w, ok := g.Weight("a", "b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, w)

	w, ok = g.Weight("b", "a")
	assert.True(t, ok, "adjacency must be symmetric")
	assert.Equal(t, 2.0, w)

	w, ok = g.Weight("c", "b")
	assert.True(t, ok)
	assert.Equal(t, DefaultEdgeWeight, w, "absent weight defaults to 1")

	_, ok = g.Weight("a", "c")
	assert.False(t, ok)
	_, ok = g.Weight("a", "zzz")
	assert.False(t, ok)

	assert.Equal(t, []string{"b"}, g.Neighbors("a"))
	assert.ElementsMatch(t, []string{"b", "c"}, g.Neighbors("c"))
	assert.Empty(t, g.Neighbors("missing"))
}

func TestGraph_DegreeAndTotalWeight(t *testing.T) {
	g, err := NewGraph([]int{1, 2, 3}, []Edge[int]{
		{1, 2, 2},
		{2, 3, 1},
		{3, 3, 4}, // self-loop counts twice in degree, once in total weight
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, g.DegreeOf(1))
	assert.Equal(t, 3.0, g.DegreeOf(2))
	assert.Equal(t, 9.0, g.DegreeOf(3))
	assert.Equal(t, 0.0, g.DegreeOf(99))
	assert.Equal(t, 7.0, g.TotalWeight())
}

func TestGraph_DuplicatePairUpdatesInPlace(t *testing.T) {
	g, err := NewGraph([]int{0, 1}, []Edge[int]{
		{0, 1, 1},
		{1, 0, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, g.EdgeCount(), "a second edge on the same pair must not append")
	assert.Equal(t, 3.0, g.TotalWeight())
	w, _ := g.Weight(0, 1)
	assert.Equal(t, 3.0, w)
	assert.Equal(t, Edge[int]{Source: 0, Target: 1, Weight: 3}, g.Edges()[0])
}

func TestNewGraph_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		nodes []int
		edges []Edge[int]
	}{
		{"unknown source", []int{1, 2}, []Edge[int]{{7, 2, 1}}},
		{"unknown target", []int{1, 2}, []Edge[int]{{1, 7, 1}}},
		{"duplicate node", []int{1, 1}, nil},
		{"NaN weight", []int{1, 2}, []Edge[int]{{1, 2, math.NaN()}}},
		{"infinite weight", []int{1, 2}, []Edge[int]{{1, 2, math.Inf(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.nodes, tt.edges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

			var ce *CommunityError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestGraph_Subgraph(t *testing.T) {
	g := twoTriangles(t)

	sub, err := g.Subgraph([]int{0, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, sub.Nodes())
	assert.Equal(t, 1, sub.EdgeCount())
	assert.Equal(t, 1.0, sub.TotalWeight())

	_, err = g.Subgraph([]int{0, 42})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGraph_AccessorsReturnCopies(t *testing.T) {
	g := twoTriangles(t)

	nodes := g.Nodes()
	nodes[0] = 100
	assert.Equal(t, 0, g.Nodes()[0])

	edges := g.Edges()
	edges[0].Weight = 50
	assert.Equal(t, 6.0, g.TotalWeight())
}
