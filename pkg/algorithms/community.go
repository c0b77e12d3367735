package algorithms

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// DetectCommunities builds the dendrogram of g and returns the partition at
// its coarsest level together with per-community summaries.
func DetectCommunities[N comparable](g *Graph[N], opts DetectionOptions) (*CommunityDetectionResult[N], error) {
	runID := uuid.New().String()
	logger := logging.OrNop(opts.Logger).With(logging.RunID(runID), logging.Component("community"))
	opts.Logger = logger

	timer := logging.StartTimer(logger, "community detection",
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Seed(opts.Seed),
	)

	result, err := detect(g, opts)
	if err != nil {
		elapsed := timer.EndError(err)
		if opts.Recorder != nil {
			opts.Recorder.RecordRun("error", 0, 0, 0, elapsed)
		}
		return nil, err
	}
	result.RunID = runID
	result.Seed = opts.Seed

	elapsed := timer.End(
		logging.Depth(result.Levels),
		logging.Communities(len(result.Communities)),
		logging.Quality(result.Quality),
	)
	if opts.Recorder != nil {
		opts.Recorder.RecordRun("success", result.Levels, len(result.Communities), result.Quality, elapsed)
	}
	return result, nil
}

func detect[N comparable](g *Graph[N], opts DetectionOptions) (*CommunityDetectionResult[N], error) {
	dendrogram, err := BuildDendrogram(g, opts)
	if err != nil {
		return nil, err
	}
	final, err := dendrogram.Flatten()
	if err != nil {
		return nil, err
	}

	result := &CommunityDetectionResult[N]{
		NodeCommunity: final.Map(),
		Quality:       dendrogram.Quality(),
		Levels:        dendrogram.Depth(),
		Components:    ConnectedComponents(g).CommunityCount(),
		Degenerate:    g.TotalWeight() == 0,
	}
	result.Communities = Summarize(g, final)

	if !result.Degenerate {
		status, err := statusFor(g, final)
		if err != nil {
			return nil, err
		}
		if result.Modularity, err = status.Modularity(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// statusFor builds a Status of g with nodes placed according to p. p must
// be renumbered so that its ids fit the node range.
func statusFor[N comparable](g *Graph[N], p *Partition[N]) (*Status[N], error) {
	status, err := NewStatus(g)
	if err != nil {
		return nil, err
	}
	for i, n := range g.nodes {
		c, ok := p.community[n]
		if !ok {
			return nil, NewError("statusFor").Node(n).Cause(ErrMissingKey).Err()
		}
		if c < 0 || c >= len(status.members) {
			return nil, NewError("statusFor").Node(n).Context("community %d out of range", c).Cause(ErrInvalidInput).Err()
		}
		status.remove(i, i, 0)
		status.insert(i, c, 0)
	}

	// Weights were left out above; rebuild internal weights from the edges
	for c := range status.internal {
		status.internal[c] = 0
	}
	for _, e := range g.edges {
		cs, ct := p.community[e.Source], p.community[e.Target]
		if cs == ct {
			status.internal[cs] += e.Weight
		}
	}
	return status, nil
}

// Summarize describes every community of p. Communities are ordered by id,
// members by their position in g.
func Summarize[N comparable](g *Graph[N], p *Partition[N]) []*Community[N] {
	members := p.Members()
	order := p.communityOrder()

	internal := make(map[int]float64, len(order))
	for _, e := range g.edges {
		cs, okS := p.community[e.Source]
		ct, okT := p.community[e.Target]
		if okS && okT && cs == ct {
			internal[cs] += e.Weight
		}
	}

	minSize, maxSize := math.MaxInt, 0
	communities := make([]*Community[N], 0, len(order))
	for _, id := range order {
		nodes := members[id]
		size := len(nodes)
		density := 0.0
		if size > 1 {
			density = internal[id] / float64(size*(size-1)/2)
		}
		clustering := 0.0
		for _, n := range nodes {
			clustering += g.clusteringAt(g.index[n])
		}
		communities = append(communities, &Community[N]{
			ID:         id,
			Nodes:      nodes,
			Size:       size,
			Density:    density,
			Clustering: clustering / float64(size),
		})
		minSize = min(minSize, size)
		maxSize = max(maxSize, size)
	}

	for _, c := range communities {
		c.Scale = scaleSize(c.Size, minSize, maxSize)
	}
	sort.Slice(communities, func(i, j int) bool {
		return communities[i].ID < communities[j].ID
	})
	return communities
}

// scaleSize maps size onto [1, 10] logarithmically between the smallest
// and largest community.
func scaleSize(size, minSize, maxSize int) float64 {
	if maxSize <= minSize {
		return 1
	}
	b := 9 / (math.Log(float64(maxSize)) - math.Log(float64(minSize)))
	a := 1 - b*math.Log(float64(minSize))
	return math.Max(1, math.Min(10, a+b*math.Log(float64(size))))
}

// SplitCommunity re-optimizes the members of one community on their
// node-induced subgraph. The first resulting part keeps the community id and
// every further part gets a fresh id after the largest one in assignment.
// The returned mapping covers every node of assignment.
func SplitCommunity[N comparable](g *Graph[N], assignment map[N]int, community int, opts OptimizerOptions) (map[N]int, error) {
	var members []N
	maxID := -1
	for _, n := range g.nodes {
		c, ok := assignment[n]
		if !ok {
			return nil, NewError("SplitCommunity").Node(n).Cause(ErrMissingKey).Err()
		}
		maxID = max(maxID, c)
		if c == community {
			members = append(members, n)
		}
	}
	if len(members) == 0 {
		return nil, NewError("SplitCommunity").Context("community %d has no members", community).Cause(ErrInvalidInput).Err()
	}

	sub, err := g.Subgraph(members)
	if err != nil {
		return nil, err
	}
	status, err := NewStatus(sub)
	if err != nil {
		return nil, err
	}
	if _, err := OptimizeLevel(status, opts); err != nil {
		return nil, err
	}
	parts := status.Renumber()

	out := make(map[N]int, len(assignment))
	for n, c := range assignment {
		out[n] = c
	}
	for _, n := range members {
		part := parts.community[n]
		if part == 0 {
			out[n] = community
		} else {
			out[n] = maxID + part
		}
	}
	return out, nil
}
