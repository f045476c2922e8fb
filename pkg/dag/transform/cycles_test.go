package transform

import (
	"testing"

	"github.com/matzehuels/taskgraph/pkg/dag"
)

func graph(nodes int, edges ...[2]int64) *dag.DAG {
	g := dag.New(nil)
	for id := int64(1); id <= int64(nodes); id++ {
		_ = g.AddNode(dag.Node{ID: id})
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e[0], To: e[1]})
	}
	return g
}

func TestBreakCycles_NoCycles(t *testing.T) {
	g := graph(3, [2]int64{2, 1}, [2]int64{3, 2})

	removed := BreakCycles(g)

	if len(removed) != 0 {
		t.Errorf("BreakCycles() removed %d edges, want 0", len(removed))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_SimpleCycle(t *testing.T) {
	g := graph(2, [2]int64{1, 2}, [2]int64{2, 1})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Fatalf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if removed[0].From != 2 || removed[0].To != 1 {
		t.Errorf("removed = %+v, want 2 -> 1", removed[0])
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBreakCycles_TriangleCycle(t *testing.T) {
	g := graph(3, [2]int64{1, 2}, [2]int64{2, 3}, [2]int64{3, 1})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Errorf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_SelfLoop(t *testing.T) {
	g := graph(1, [2]int64{1, 1})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Errorf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestBreakCycles_DiamondNoCycle(t *testing.T) {
	g := graph(4, [2]int64{2, 1}, [2]int64{3, 1}, [2]int64{4, 2}, [2]int64{4, 3})

	if removed := BreakCycles(g); len(removed) != 0 {
		t.Errorf("BreakCycles() removed %v, want none", removed)
	}
}

func TestBreakCycles_ResultIsAcyclic(t *testing.T) {
	g := graph(5,
		[2]int64{1, 2}, [2]int64{2, 3}, [2]int64{3, 1},
		[2]int64{3, 4}, [2]int64{4, 5}, [2]int64{5, 3},
	)

	BreakCycles(g)

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after BreakCycles = %v", err)
	}
}

func TestBreakCycles_EmptyGraph(t *testing.T) {
	if removed := BreakCycles(dag.New(nil)); len(removed) != 0 {
		t.Errorf("BreakCycles() removed %d edges, want 0", len(removed))
	}
}
