package algorithms

// Unassigned is the community of a node that has been removed and not yet
// reinserted.
const Unassigned = -1

// Status tracks community aggregates for one graph level while nodes are
// moved between communities. Community ids are node positions at
// initialization, so every id lies in [0, NodeCount).
//
// A Status is exclusively owned by the caller that created it.
type Status[N comparable] struct {
	graph *Graph[N]

	assignment []int     // node position -> community
	internal   []float64 // community -> weight strictly inside, self-loops included
	degree     []float64 // community -> sum of member node degrees
	members    []int     // community -> member count

	nodeDegree []float64 // node position -> degree, self-loop doubled
	selfLoop   []float64 // node position -> self-loop weight

	totalWeight float64
}

// CommunityWeight is the summed edge weight from a node into one community
type CommunityWeight struct {
	Community int
	Weight    float64
}

// neighborWeights keeps neighbour communities in first-encounter order
type neighborWeights struct {
	order  []int
	weight map[int]float64
}

func (nw *neighborWeights) get(c int) float64 {
	return nw.weight[c]
}

// NewStatus puts every node of g into its own community.
// It fails with ErrInvalidGraph if a node has a negative degree.
func NewStatus[N comparable](g *Graph[N]) (*Status[N], error) {
	n := g.NodeCount()
	s := &Status[N]{
		graph:       g,
		assignment:  make([]int, n),
		internal:    make([]float64, n),
		degree:      make([]float64, n),
		members:     make([]int, n),
		nodeDegree:  make([]float64, n),
		selfLoop:    make([]float64, n),
		totalWeight: g.TotalWeight(),
	}

	for i := 0; i < n; i++ {
		deg := g.degreeAt(i)
		if deg < 0 {
			return nil, NewError("NewStatus").Node(g.nodes[i]).Context("degree %v", deg).Cause(ErrInvalidGraph).Err()
		}
		loop := g.selfLoopAt(i)

		s.assignment[i] = i
		s.nodeDegree[i] = deg
		s.degree[i] = deg
		s.selfLoop[i] = loop
		s.internal[i] = loop
		s.members[i] = 1
	}
	return s, nil
}

// Graph returns the graph this status tracks
func (s *Status[N]) Graph() *Graph[N] {
	return s.graph
}

// TotalWeight returns the graph's total edge weight
func (s *Status[N]) TotalWeight() float64 {
	return s.totalWeight
}

// Community returns the community of n, or Unassigned while n is removed
func (s *Status[N]) Community(n N) (int, bool) {
	i, ok := s.graph.index[n]
	if !ok {
		return Unassigned, false
	}
	return s.assignment[i], true
}

// CommunityCount returns the number of non-empty communities
func (s *Status[N]) CommunityCount() int {
	count := 0
	for _, m := range s.members {
		if m > 0 {
			count++
		}
	}
	return count
}

// Internal returns the internal weight of community c
func (s *Status[N]) Internal(c int) float64 {
	if c < 0 || c >= len(s.internal) {
		return 0
	}
	return s.internal[c]
}

// Degree returns the summed degree of community c
func (s *Status[N]) Degree(c int) float64 {
	if c < 0 || c >= len(s.degree) {
		return 0
	}
	return s.degree[c]
}

// NodeDegree returns the degree of n as recorded at initialization
func (s *Status[N]) NodeDegree(n N) float64 {
	i, ok := s.graph.index[n]
	if !ok {
		return 0
	}
	return s.nodeDegree[i]
}

// Assignment returns a copy of the node to community mapping
func (s *Status[N]) Assignment() map[N]int {
	out := make(map[N]int, len(s.assignment))
	for i, c := range s.assignment {
		out[s.graph.nodes[i]] = c
	}
	return out
}

// Remove takes n out of community c. weight is the summed edge weight
// between n and the other members of c.
func (s *Status[N]) Remove(n N, c int, weight float64) error {
	i, err := s.locate("Remove", n, c)
	if err != nil {
		return err
	}
	if s.assignment[i] != c {
		return NewError("Remove").Node(n).Context("node is in community %d, not %d", s.assignment[i], c).Cause(ErrInvalidInput).Err()
	}
	s.remove(i, c, weight)
	return nil
}

// Insert puts n, which must currently be removed, into community c
func (s *Status[N]) Insert(n N, c int, weight float64) error {
	i, err := s.locate("Insert", n, c)
	if err != nil {
		return err
	}
	if s.assignment[i] != Unassigned {
		return NewError("Insert").Node(n).Context("node is still in community %d", s.assignment[i]).Cause(ErrInvalidInput).Err()
	}
	s.insert(i, c, weight)
	return nil
}

func (s *Status[N]) locate(op string, n N, c int) (int, error) {
	i, ok := s.graph.index[n]
	if !ok {
		return 0, NewError(op).Node(n).Context("unknown node").Cause(ErrInvalidInput).Err()
	}
	if c < 0 || c >= len(s.members) {
		return 0, NewError(op).Node(n).Context("community %d out of range", c).Cause(ErrInvalidInput).Err()
	}
	return i, nil
}

func (s *Status[N]) remove(i, c int, weight float64) {
	s.degree[c] -= s.nodeDegree[i]
	s.internal[c] -= weight + s.selfLoop[i]
	s.members[c]--
	if s.members[c] == 0 {
		// Drop accumulated rounding error with the last member
		s.degree[c] = 0
		s.internal[c] = 0
	}
	s.assignment[i] = Unassigned
}

func (s *Status[N]) insert(i, c int, weight float64) {
	s.degree[c] += s.nodeDegree[i]
	s.internal[c] += weight + s.selfLoop[i]
	s.members[c]++
	s.assignment[i] = c
}

// NeighborCommunityWeights sums the weights of n's edges per neighbouring
// community, skipping n's self-loop and neighbours that are currently
// removed. Communities appear in first-encounter order.
func (s *Status[N]) NeighborCommunityWeights(n N) ([]CommunityWeight, error) {
	i, ok := s.graph.index[n]
	if !ok {
		return nil, NewError("NeighborCommunityWeights").Node(n).Context("unknown node").Cause(ErrInvalidInput).Err()
	}
	nw := s.neighborCommunities(i)
	out := make([]CommunityWeight, 0, len(nw.order))
	for _, c := range nw.order {
		out = append(out, CommunityWeight{Community: c, Weight: nw.weight[c]})
	}
	return out, nil
}

func (s *Status[N]) neighborCommunities(i int) neighborWeights {
	row := s.graph.adj[i]
	nw := neighborWeights{
		order:  make([]int, 0, len(row.order)),
		weight: make(map[int]float64, len(row.order)),
	}
	for _, j := range row.order {
		if j == i {
			continue
		}
		c := s.assignment[j]
		if c == Unassigned {
			continue
		}
		if _, seen := nw.weight[c]; !seen {
			nw.order = append(nw.order, c)
		}
		nw.weight[c] += row.weight[j]
	}
	return nw
}

// Renumber returns the current assignment with community ids remapped to
// 0..k-1 in order of first appearance over the graph's node order.
func (s *Status[N]) Renumber() *Partition[N] {
	return renumberAssignment(s.graph.nodes, func(i int) int { return s.assignment[i] })
}
