package dag

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/taskgraph/pkg/task"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is not
	// positive. Storage assigns ids starting at 1.
	ErrInvalidNodeID = errors.New("node ID must be positive")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil once added to a DAG.
type Metadata map[string]any

// Node is a task in the dependency graph.
//
// Row is a layer index assigned by transform.AssignLayers; it is zero
// until layering runs and has no meaning for cycle checks.
type Node struct {
	ID    int64    // Task ID
	Label string   // Display label, usually the task title
	Row   int      // Layer assignment (0 = no dependencies)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge is a dependency: From depends on To.
type Edge struct {
	From int64    // Dependent task
	To   int64    // Dependency
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed graph of tasks. Acyclicity is not enforced on insert;
// it is checked before mutations are persisted (see [WouldCreateCycle]) and
// verified on demand by [DAG.Validate].
//
// The zero value is not usable - use New to create a valid DAG instance.
type DAG struct {
	nodes    map[int64]*Node
	edges    []Edge
	outgoing map[int64][]int64 // task -> dependencies
	incoming map[int64][]int64 // task -> dependents
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[int64]*Node),
		outgoing: make(map[int64][]int64),
		incoming: make(map[int64][]int64),
		meta:     meta,
	}
}

// FromSnapshot builds a graph from a list of task ids and the persisted
// edge set. Edges whose endpoints are not in ids are dropped, and
// duplicate ids or edges are ignored.
func FromSnapshot(ids []int64, edges []task.Edge) *DAG {
	g := New(nil)
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	for _, e := range edges {
		_ = g.AddEdge(Edge{From: e.TaskID, To: e.DependsOnID})
	}
	return g
}

// Build builds a labelled graph from resolved tasks. Dependencies that are
// not themselves in tasks are dropped.
func Build(tasks []task.Task) *DAG {
	g := New(nil)
	for _, t := range tasks {
		_ = g.AddNode(Node{ID: t.ID, Label: t.Title})
	}
	for _, t := range tasks {
		for _, d := range t.Dependencies {
			_ = g.AddEdge(Edge{From: t.ID, To: d.ID})
		}
	}
	return g
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID for a
// non-positive ID or ErrDuplicateNodeID if the ID is already present.
func (d *DAG) AddNode(n Node) error {
	if n.ID <= 0 {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	return nil
}

// AddEdge adds a dependency edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing. Edges form a set: adding an existing edge is a no-op.
// Self-loops are accepted here and reported by Validate.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if d.HasEdge(e.From, e.To) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// HasEdge reports whether from depends on to.
func (d *DAG) HasEdge(from, to int64) bool {
	return slices.Contains(d.outgoing[from], to)
}

// RemoveEdge removes the edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to int64) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(id int64) bool { return id == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(id int64) bool { return id == from })
}

// SetRows updates the row assignment of the given nodes. Nodes not present
// in rows keep their current row.
func (d *DAG) SetRows(rows map[int64]int) {
	for id, row := range rows {
		if n, ok := d.nodes[id]; ok {
			n.Row = row
		}
	}
}

// Nodes returns all nodes ordered by ascending ID. The returned pointers
// refer to the graph's nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, id := range d.NodeIDs() {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in ascending order.
func (d *DAG) NodeIDs() []int64 {
	return slices.Sorted(maps.Keys(d.nodes))
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id int64) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Dependencies returns the IDs id depends on, in insertion order.
// Returns nil if the node has none or doesn't exist. The returned slice
// should not be modified.
func (d *DAG) Dependencies(id int64) []int64 { return d.outgoing[id] }

// Dependents returns the IDs that depend on id, in insertion order.
// Returns nil if the node has none or doesn't exist. The returned slice
// should not be modified.
func (d *DAG) Dependents(id int64) []int64 { return d.incoming[id] }

// OutDegree returns the number of dependencies of the node.
func (d *DAG) OutDegree(id int64) int { return len(d.outgoing[id]) }

// InDegree returns the number of dependents of the node.
func (d *DAG) InDegree(id int64) int { return len(d.incoming[id]) }

// Sources returns nodes nothing depends on (final deliverables), by ID.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.Nodes() {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no dependencies (startable now), by ID.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.Nodes() {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate checks graph integrity and returns nil if valid. It returns
// ErrInvalidEdgeEndpoint if an edge references a missing node, or
// ErrGraphHasCycle if a directed cycle exists.
//
// Cycle detection runs in O(N+E) time.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
	}
	if d.FindCycle() != nil {
		return ErrGraphHasCycle
	}
	return nil
}
