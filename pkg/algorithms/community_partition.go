package algorithms

// Partition maps every node of one graph to a community id.
// Nodes keep the order of the graph they were taken from, which is what
// makes renumbering and coarsening deterministic.
type Partition[N comparable] struct {
	nodes     []N
	community map[N]int
	count     int
}

// NewPartition builds a partition from an explicit assignment. The
// community ids are used as given; count is the number of distinct ids.
func NewPartition[N comparable](nodes []N, assignment map[N]int) (*Partition[N], error) {
	p := &Partition[N]{
		nodes:     make([]N, 0, len(nodes)),
		community: make(map[N]int, len(nodes)),
	}
	seen := make(map[int]struct{})
	for _, n := range nodes {
		c, ok := assignment[n]
		if !ok {
			return nil, NewError("NewPartition").Node(n).Cause(ErrMissingKey).Err()
		}
		if _, dup := p.community[n]; dup {
			return nil, NewError("NewPartition").Node(n).Context("duplicate node").Cause(ErrInvalidInput).Err()
		}
		p.nodes = append(p.nodes, n)
		p.community[n] = c
		seen[c] = struct{}{}
	}
	p.count = len(seen)
	return p, nil
}

// renumberAssignment remaps ids to 0..k-1 in order of first appearance
// when scanning nodes in order.
func renumberAssignment[N comparable](nodes []N, assignment func(i int) int) *Partition[N] {
	p := &Partition[N]{
		nodes:     make([]N, len(nodes)),
		community: make(map[N]int, len(nodes)),
	}
	copy(p.nodes, nodes)

	remap := make(map[int]int)
	for i, n := range nodes {
		old := assignment(i)
		id, ok := remap[old]
		if !ok {
			id = len(remap)
			remap[old] = id
		}
		p.community[n] = id
	}
	p.count = len(remap)
	return p
}

// Renumber returns a copy of p with contiguous ids in first-seen order
func (p *Partition[N]) Renumber() *Partition[N] {
	return renumberAssignment(p.nodes, func(i int) int { return p.community[p.nodes[i]] })
}

// Len returns the number of nodes in the partition
func (p *Partition[N]) Len() int {
	return len(p.nodes)
}

// CommunityCount returns the number of distinct community ids
func (p *Partition[N]) CommunityCount() int {
	return p.count
}

// Nodes returns the partitioned nodes in order
func (p *Partition[N]) Nodes() []N {
	out := make([]N, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// Community returns the community of n
func (p *Partition[N]) Community(n N) (int, bool) {
	c, ok := p.community[n]
	return c, ok
}

// Map returns a copy of the node to community mapping
func (p *Partition[N]) Map() map[N]int {
	out := make(map[N]int, len(p.community))
	for n, c := range p.community {
		out[n] = c
	}
	return out
}

// Members groups nodes by community id, each group in node order
func (p *Partition[N]) Members() map[int][]N {
	out := make(map[int][]N, p.count)
	for _, n := range p.nodes {
		c := p.community[n]
		out[c] = append(out[c], n)
	}
	return out
}

// communityOrder lists the distinct ids in first-seen order
func (p *Partition[N]) communityOrder() []int {
	seen := make(map[int]struct{}, p.count)
	order := make([]int, 0, p.count)
	for _, n := range p.nodes {
		c := p.community[n]
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			order = append(order, c)
		}
	}
	return order
}
