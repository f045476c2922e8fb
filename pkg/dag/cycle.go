package dag

// frame is one level of an explicit depth-first traversal: the node being
// expanded, its dependencies, and the index of the next one to visit.
type frame struct {
	id   int64
	deps []int64
	next int
}

// FindCycle returns the nodes of one directed cycle in dependency order,
// starting at the node first reached on the cycle, or nil if the graph is
// acyclic. A self-loop is reported as a single node.
//
// Roots are visited in ascending ID order, so the result is deterministic
// for a given graph.
func (d *DAG) FindCycle() []int64 {
	const (
		white = iota
		gray
		black
	)

	color := make(map[int64]int, len(d.nodes))
	for _, root := range d.NodeIDs() {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{id: root, deps: d.outgoing[root]}}
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
				stack = append(stack, frame{id: child, deps: d.outgoing[child]})
			case gray:
				return cycleFrom(stack, child)
			}
		}
	}
	return nil
}

// cycleFrom extracts the path from start to the top of stack.
func cycleFrom(stack []frame, start int64) []int64 {
	i := len(stack) - 1
	for i > 0 && stack[i].id != start {
		i--
	}
	cycle := make([]int64, 0, len(stack)-i)
	for _, f := range stack[i:] {
		cycle = append(cycle, f.id)
	}
	return cycle
}
