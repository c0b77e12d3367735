package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInduce_TwoTriangles(t *testing.T) {
	g := twoTriangles(t)
	p, err := NewPartition(g.Nodes(), map[int]int{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 1})
	require.NoError(t, err)

	induced, err := Induce(p, g)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, induced.Nodes())
	assert.Equal(t, []Edge[int]{
		{Source: 0, Target: 0, Weight: 3},
		{Source: 1, Target: 1, Weight: 3},
	}, induced.Edges())
	assert.Equal(t, g.TotalWeight(), induced.TotalWeight())
}

func TestInduce_SumsCrossingEdges(t *testing.T) {
	g, err := NewGraph([]string{"a", "b", "c", "d"}, []Edge[string]{
		{"a", "c", 2},
		{"b", "d", 0.5},
		{"a", "b", 1},
	})
	require.NoError(t, err)
	p, err := NewPartition(g.Nodes(), map[string]int{"a": 7, "b": 7, "c": 3, "d": 3})
	require.NoError(t, err)

	induced, err := Induce(p, g)
	require.NoError(t, err)

	assert.Equal(t, []int{7, 3}, induced.Nodes(), "nodes follow first-seen community order")
	w, ok := induced.Weight(7, 3)
	require.True(t, ok)
	assert.Equal(t, 2.5, w)
	w, ok = induced.Weight(7, 7)
	require.True(t, ok)
	assert.Equal(t, 1.0, w)
	assert.Equal(t, 3.5, induced.TotalWeight())
}

func TestInduce_MissingNode(t *testing.T) {
	g := twoTriangles(t)
	p, err := NewPartition([]int{0, 1}, map[int]int{0: 0, 1: 0})
	require.NoError(t, err)

	_, err = Induce(p, g)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestBuildDendrogram_SingleEdge(t *testing.T) {
	g, err := NewGraph([]string{"a", "b"}, []Edge[string]{{"a", "b", 1}})
	require.NoError(t, err)

	d, err := BuildDendrogram(g, DefaultDetectionOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, d.Depth())
	assert.InDelta(t, 0, d.Quality(), floatTolerance)

	flat, err := d.Flatten()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 0}, flat.Map())
}

func TestBuildDendrogram_TwoTriangles(t *testing.T) {
	var reports []LevelReport
	opts := DefaultDetectionOptions()
	opts.OnLevel = func(r LevelReport) { reports = append(reports, r) }

	d, err := BuildDendrogram(twoTriangles(t), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Depth())
	assert.InDelta(t, -math.Ln2, d.Quality(), floatTolerance)
	require.Len(t, d.Qualities(), 1)
	require.Len(t, d.Stats(), 1)
	assert.Empty(t, d.Levels())

	// Level 0 is kept; level 1 fails to improve and is reported as rejected
	require.Len(t, reports, 2)
	assert.True(t, reports[0].Accepted)
	assert.Equal(t, 0, reports[0].Level)
	assert.Equal(t, 6, reports[0].Nodes)
	assert.Equal(t, 2, reports[0].Communities)
	assert.False(t, reports[1].Accepted)
	assert.Equal(t, 1, reports[1].Level)
	assert.Equal(t, 2, reports[1].Nodes)
}

func TestBuildDendrogram_Degenerate(t *testing.T) {
	g, err := NewGraph([]string{"x", "y", "z"}, nil)
	require.NoError(t, err)

	reports := 0
	opts := DefaultDetectionOptions()
	opts.OnLevel = func(r LevelReport) {
		reports++
		assert.True(t, r.Stats.Degenerate)
	}

	d, err := BuildDendrogram(g, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, reports)
	assert.Equal(t, 1, d.Depth())
	assert.Equal(t, 0.0, d.Quality())
	assert.Empty(t, d.Qualities())

	flat, err := d.Flatten()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"x": 0, "y": 1, "z": 2}, flat.Map())
}

func TestBuildDendrogram_InvalidOptions(t *testing.T) {
	opts := DefaultDetectionOptions()
	opts.Threshold = -0.5

	_, err := BuildDendrogram(twoTriangles(t), opts)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDendrogram_PartitionAtLevel(t *testing.T) {
	d, err := BuildDendrogram(ringOfCliques(t, 4, 5), DefaultDetectionOptions())
	require.NoError(t, err)

	_, err = d.PartitionAtLevel(-1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	flat, err := d.Flatten()
	require.NoError(t, err)
	clamped, err := d.PartitionAtLevel(d.Depth() + 10)
	require.NoError(t, err)
	assert.Equal(t, flat.Map(), clamped.Map())

	base, err := d.PartitionAtLevel(0)
	require.NoError(t, err)
	assert.Equal(t, d.Base().Map(), base.Map())

	// Coarser levels never split a community of a finer one
	for level := 1; level < d.Depth(); level++ {
		finer, err := d.PartitionAtLevel(level - 1)
		require.NoError(t, err)
		coarser, err := d.PartitionAtLevel(level)
		require.NoError(t, err)
		seen := make(map[int]int)
		for n, c := range finer.Map() {
			cc, _ := coarser.Community(n)
			if prev, ok := seen[c]; ok {
				assert.Equal(t, prev, cc)
			}
			seen[c] = cc
		}
	}

	qualities := d.Qualities()
	for i := 1; i < len(qualities); i++ {
		assert.Less(t, qualities[i], qualities[i-1], "each kept level improves quality")
	}
}
