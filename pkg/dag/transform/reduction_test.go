package transform

import "testing"

func TestTransitiveReduction(t *testing.T) {
	tests := []struct {
		name        string
		nodes       int
		edges       [][2]int64
		wantRemoved int
		wantEdges   int
	}{
		{"empty", 0, nil, 0, 0},
		{"chain", 3, [][2]int64{{2, 1}, {3, 2}}, 0, 2},
		{"shortcut", 3, [][2]int64{{2, 1}, {3, 2}, {3, 1}}, 1, 2},
		{"long shortcut", 4, [][2]int64{{2, 1}, {3, 2}, {4, 3}, {4, 1}, {4, 2}}, 2, 3},
		{"diamond", 4, [][2]int64{{2, 1}, {3, 1}, {4, 2}, {4, 3}}, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(tt.nodes, tt.edges...)
			if got := TransitiveReduction(g); got != tt.wantRemoved {
				t.Errorf("TransitiveReduction() = %d, want %d", got, tt.wantRemoved)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
		})
	}
}
