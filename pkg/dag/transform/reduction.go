package transform

import "github.com/matzehuels/taskgraph/pkg/dag"

// TransitiveReduction removes every edge (u, v) for which v is still
// reachable from u through another dependency, and returns the number of
// edges removed.
//
// The graph must be acyclic; on a cyclic graph the result is unspecified.
//
// # Performance
//
// Reachability is computed once per node, so time is O(V·(V+E)) and space
// is O(V²). Task graphs are small enough that this never matters.
func TransitiveReduction(g *dag.DAG) int {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return 0
	}

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	adjacency := make([][]int, len(ids))
	for i, id := range ids {
		for _, dep := range g.Dependencies(id) {
			adjacency[i] = append(adjacency[i], index[dep])
		}
	}

	reachable := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, via := range adjacency[src] {
			if via != dst && reachable[via][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for source := range reachable {
		seen := make([]bool, n)
		stack := []int{source}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[cur] {
				continue
			}
			seen[cur] = true
			stack = append(stack, adjacency[cur]...)
		}
		reachable[source] = seen
	}
	return reachable
}
