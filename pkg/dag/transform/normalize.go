package transform

import "github.com/matzehuels/taskgraph/pkg/dag"

// Normalize removes transitive edges and assigns layers, returning g.
func Normalize(g *dag.DAG) *dag.DAG {
	TransitiveReduction(g)
	AssignLayers(g)
	return g
}
