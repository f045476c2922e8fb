// Package transform provides graph transformations over the task
// dependency graph.
//
// # Cycle Breaking
//
// [BreakCycles] removes back edges until the graph is acyclic and returns
// the removed edges. The integrity check uses it to propose (and with
// --fix, apply) a repair when storage holds a cycle that bypassed the
// mutation check.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If C depends on B and B depends on A, an explicit C→A edge
// adds nothing to the schedule and is dropped from graph exports.
//
// # Layer Assignment
//
// [AssignLayers] sets each node's Row to the length of its longest
// dependency chain: tasks without dependencies are row 0, and every task
// sits strictly above everything it depends on. Graph exports group nodes
// by row so that tasks which can run in parallel line up.
//
// [Normalize] applies reduction and layering in the right order.
//
// All transformations run in place and use explicit stacks or queues.
package transform
