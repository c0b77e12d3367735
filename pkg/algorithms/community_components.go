package algorithms

import (
	"container/list"
)

// ConnectedComponents partitions g into its connected components. Component
// ids follow the order in which their first node appears in g.
func ConnectedComponents[N comparable](g *Graph[N]) *Partition[N] {
	component := make([]int, g.NodeCount())
	for i := range component {
		component[i] = Unassigned
	}

	next := 0
	for start := range component {
		if component[start] != Unassigned {
			continue
		}

		// BFS from start
		queue := list.New()
		queue.PushBack(start)
		component[start] = next

		for queue.Len() > 0 {
			i := queue.Remove(queue.Front()).(int)
			for _, j := range g.adj[i].order {
				if component[j] == Unassigned {
					component[j] = next
					queue.PushBack(j)
				}
			}
		}
		next++
	}

	return renumberAssignment(g.nodes, func(i int) int { return component[i] })
}
