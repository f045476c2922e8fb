// Package dag provides the in-memory task dependency graph and the cycle
// checks that keep it acyclic.
//
// # Overview
//
// A [DAG] is a snapshot of every task (node) and every dependency edge,
// built fresh for each request from storage. Edges point from a task to
// the task it depends on, so [DAG.Dependencies] returns a node's outgoing
// neighbours and [DAG.Dependents] its incoming ones.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: 1, Label: "Design"})
//	g.AddNode(dag.Node{ID: 2, Label: "Build"})
//	g.AddEdge(dag.Edge{From: 2, To: 1}) // Build depends on Design
//
// [FromSnapshot] and [Build] construct a graph directly from storage rows
// or resolved tasks.
//
// # Mutation Checks
//
// [WouldCreateCycle] answers whether replacing a task's dependency set
// would close a directed cycle. It runs before the new edges are written
// and never mutates the graph. It accepts any [Adjacency], so callers can
// check against a [DAG] or a plain [AdjacencyMap].
//
// [DAG.Validate] checks the whole graph and returns [ErrGraphHasCycle] if
// any directed cycle exists; [DAG.FindCycle] returns the offending path.
//
// All traversals use explicit stacks. Deep dependency chains cannot
// exhaust the goroutine stack.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Each request builds and
// owns its own snapshot, so no locking is needed in practice.
//
// # Related Packages
//
// The [transform] subpackage provides graph transformations used by the
// integrity check and graph export: cycle breaking, transitive reduction
// and layer assignment.
//
// [transform]: github.com/matzehuels/taskgraph/pkg/dag/transform
package dag
