package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/taskgraph/pkg/dag"
)

type graph struct {
	Nodes        []node  `json:"nodes"`
	Edges        []edge  `json:"edges"`
	CriticalPath []int64 `json:"criticalPath"`
}

type node struct {
	ID    int64        `json:"id"`
	Label string       `json:"label,omitempty"`
	Row   *int         `json:"row,omitempty"`
	Meta  dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// WriteJSON encodes g and its critical path as JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(g *dag.DAG, critical []int64, w io.Writer) error {
	out := graph{
		Nodes:        make([]node, 0, g.NodeCount()),
		Edges:        make([]edge, 0, g.EdgeCount()),
		CriticalPath: critical,
	}
	if out.CriticalPath == nil {
		out.CriticalPath = []int64{}
	}

	for _, n := range g.Nodes() {
		nd := node{ID: n.ID, Label: n.Label}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		if n.Row != 0 {
			row := n.Row
			nd.Row = &row
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *dag.DAG, critical []int64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, critical, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
