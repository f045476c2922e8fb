package transform

import "github.com/matzehuels/taskgraph/pkg/dag"

// BreakCycles removes the back edges found by a depth-first search and
// returns them in the order they were found. The graph is acyclic
// afterwards. Nodes are visited in ascending ID order, so the same graph
// always yields the same repair.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   int64
		deps []int64
		next int
	}

	color := make(map[int64]int, g.NodeCount())
	var backEdges []dag.Edge

	for _, root := range g.NodeIDs() {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{id: root, deps: g.Dependencies(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.deps) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.deps[top.next]
			top.next++

			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child, deps: g.Dependencies(child)})
			case gray:
				backEdges = append(backEdges, dag.Edge{From: top.id, To: child})
			}
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
