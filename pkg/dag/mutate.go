package dag

// Adjacency is the read-only view of a dependency graph needed by
// [WouldCreateCycle]. Dependencies returns the IDs a task currently depends
// on; unknown IDs return nil.
type Adjacency interface {
	Dependencies(id int64) []int64
}

// AdjacencyMap is an [Adjacency] backed by a plain map.
type AdjacencyMap map[int64][]int64

// Dependencies implements Adjacency.
func (m AdjacencyMap) Dependencies(id int64) []int64 { return m[id] }

// WouldCreateCycle reports whether making taskID depend on exactly the
// tasks in proposed would close a directed cycle in g.
//
// Each proposed dependency is searched depth-first along existing
// dependency edges. taskID counts as being on the active path from the
// start, so reaching it (or any other node on the path) is a cycle. The
// task's own current edges are never followed since they are about to be
// replaced. Nodes unknown to g are dead ends. An empty proposal is always
// accepted and proposing taskID itself is always rejected.
//
// The traversal state is local to the call and g is never modified.
// Complexity is O(D·(V+E)) for D proposed dependencies.
func WouldCreateCycle(g Adjacency, taskID int64, proposed []int64) bool {
	if len(proposed) == 0 {
		return false
	}

	visited := make(map[int64]bool)
	onStack := map[int64]bool{taskID: true}

	for _, start := range proposed {
		if onStack[start] {
			return true
		}
		if visited[start] {
			continue
		}

		onStack[start] = true
		stack := []frame{{id: start, deps: g.Dependencies(start)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.deps) {
				onStack[top.id] = false
				visited[top.id] = true
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.deps[top.next]
			top.next++

			if onStack[next] {
				return true
			}
			if visited[next] {
				continue
			}
			onStack[next] = true
			stack = append(stack, frame{id: next, deps: g.Dependencies(next)})
		}
	}
	return false
}
