package dag

import (
	"math/rand"
	"slices"
	"testing"
)

func TestWouldCreateCycle(t *testing.T) {
	// 2 depends on 1, 3 depends on 2, 5 depends on 4.
	g := AdjacencyMap{
		2: {1},
		3: {2},
		5: {4},
	}

	tests := []struct {
		name     string
		taskID   int64
		proposed []int64
		want     bool
	}{
		{"empty proposal", 1, nil, false},
		{"empty slice", 3, []int64{}, false},
		{"self dependency", 4, []int64{4}, true},
		{"self among others", 4, []int64{1, 4}, true},
		{"direct reverse edge", 1, []int64{2}, true},
		{"transitive reverse", 1, []int64{3}, true},
		{"forward edge", 3, []int64{1}, false},
		{"unrelated component", 1, []int64{5}, false},
		{"unknown node is dead end", 1, []int64{99}, false},
		{"shared dependency twice", 6, []int64{3, 2, 3}, false},
		{"cycle via second candidate", 4, []int64{1, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WouldCreateCycle(g, tt.taskID, tt.proposed); got != tt.want {
				t.Errorf("WouldCreateCycle(%d, %v) = %v, want %v", tt.taskID, tt.proposed, got, tt.want)
			}
		})
	}
}

func TestWouldCreateCycleIgnoresOwnEdges(t *testing.T) {
	// 1 currently depends on 2. Replacing that with a dependency on 3 must
	// not follow 1 -> 2 even though 2 depends on 3.
	g := AdjacencyMap{
		1: {2},
		2: {3},
	}
	if WouldCreateCycle(g, 1, []int64{3}) {
		t.Error("WouldCreateCycle() = true, want false")
	}
	// Replacing 3's edges with a dependency on 1 closes 1 -> 2 -> 3 -> 1.
	if !WouldCreateCycle(g, 3, []int64{1}) {
		t.Error("WouldCreateCycle() = false, want true")
	}
}

func TestWouldCreateCycleOnDAG(t *testing.T) {
	g := chain(1, 2, 3)
	if !WouldCreateCycle(g, 1, []int64{3}) {
		t.Error("WouldCreateCycle(1, [3]) = false, want true")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("WouldCreateCycle mutated the graph: EdgeCount() = %d", g.EdgeCount())
	}
}

func TestWouldCreateCycleDeepChain(t *testing.T) {
	const n = 200000
	g := make(AdjacencyMap, n)
	for i := int64(2); i <= n; i++ {
		g[i] = []int64{i - 1}
	}
	if !WouldCreateCycle(g, 1, []int64{n}) {
		t.Error("WouldCreateCycle() on deep chain = false, want true")
	}
	if WouldCreateCycle(g, n+1, []int64{n}) {
		t.Error("WouldCreateCycle() extending deep chain = true, want false")
	}
}

// TestAcceptedMutationsStayAcyclic applies random dependency replacements,
// keeping only those the mutator accepts, and checks the whole graph after
// every step.
func TestAcceptedMutationsStayAcyclic(t *testing.T) {
	const (
		nodes = 30
		steps = 2000
	)
	rng := rand.New(rand.NewSource(1))

	g := New(nil)
	for id := int64(1); id <= nodes; id++ {
		_ = g.AddNode(Node{ID: id})
	}

	var accepted, rejected int
	for range steps {
		taskID := rng.Int63n(nodes) + 1
		proposed := make([]int64, rng.Intn(4))
		for i := range proposed {
			proposed[i] = rng.Int63n(nodes) + 1
		}

		if WouldCreateCycle(g, taskID, proposed) {
			rejected++
			continue
		}
		accepted++
		for _, dep := range slices.Clone(g.Dependencies(taskID)) {
			g.RemoveEdge(taskID, dep)
		}
		for _, dep := range proposed {
			_ = g.AddEdge(Edge{From: taskID, To: dep})
		}

		if err := g.Validate(); err != nil {
			t.Fatalf("after accepting %d -> %v: Validate() error = %v", taskID, proposed, err)
		}
	}

	if accepted == 0 || rejected == 0 {
		t.Errorf("accepted = %d, rejected = %d; want both exercised", accepted, rejected)
	}
}
