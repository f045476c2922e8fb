package transform

import "github.com/matzehuels/taskgraph/pkg/dag"

// AssignLayers assigns each node a row equal to the length of its longest
// dependency chain and returns the number of rows used.
//
// Tasks with no dependencies are placed in row 0. Every other task is
// placed one row above its highest dependency, so all dependencies sit
// strictly below their dependents. This is the same ordering the schedule
// analyzer produces for start dates.
//
// # Algorithm
//
// A Kahn-style topological pass starting from tasks with no dependencies:
//  1. Queue every node with no outgoing edges at row 0
//  2. For each dequeued node, push its dependents to max(row + 1)
//  3. A dependent is queued once all its dependencies are processed
//
// # Cycles
//
// Nodes on a cycle never become ready and keep row 0. Run [BreakCycles]
// first when the graph may be cyclic.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) int {
	ids := g.NodeIDs()
	remaining := make(map[int64]int, len(ids))
	rows := make(map[int64]int, len(ids))
	queue := make([]int64, 0, len(ids))

	for _, id := range ids {
		degree := g.OutDegree(id)
		remaining[id] = degree
		rows[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	maxRow := -1
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		maxRow = max(maxRow, rows[curr])

		for _, parent := range g.Dependents(curr) {
			if row := rows[curr] + 1; row > rows[parent] {
				rows[parent] = row
			}
			remaining[parent]--
			if remaining[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}

	g.SetRows(rows)
	return maxRow + 1
}
