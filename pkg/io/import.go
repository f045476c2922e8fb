package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/taskgraph/pkg/dag"
)

// ReadJSON decodes a graph written by [WriteJSON] and returns it with its
// critical path.
//
// Errors are wrapped with the node or edge that caused them. Critical path
// entries that do not name a node are dropped. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.DAG, []int64, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(nil)
	for _, n := range data.Nodes {
		nd := dag.Node{ID: n.ID, Label: n.Label, Meta: n.Meta}
		if n.Row != nil {
			nd.Row = *n.Row
		}
		if err := g.AddNode(nd); err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate: %w", err)
	}

	critical := make([]int64, 0, len(data.CriticalPath))
	for _, id := range data.CriticalPath {
		if _, ok := g.Node(id); ok {
			critical = append(critical, id)
		}
	}
	return g, critical, nil
}

// ImportJSON reads the JSON file at path with [ReadJSON].
func ImportJSON(path string) (*dag.DAG, []int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
