package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taskgraph/pkg/dag"
)

const (
	criticalColor = "#d1495b"
	criticalFill  = "#fde2e4"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes row numbers and metadata in node labels.
	// When false, only the task ID and title are shown.
	Detailed bool

	// CriticalPath lists task IDs from the first task to the last.
	// Its nodes and the edges between consecutive entries are highlighted.
	CriticalPath []int64
}

// ToDOT converts a task graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Arrows point from a dependency to the task it unblocks, so with
// rankdir=TB work flows downwards. When rows have been assigned (see
// [transform.AssignLayers]) tasks in the same row share a rank.
//
// [transform.AssignLayers]: github.com/matzehuels/taskgraph/pkg/dag/transform.AssignLayers
func ToDOT(g *dag.DAG, opts Options) string {
	critical := make(map[int64]bool, len(opts.CriticalPath))
	for _, id := range opts.CriticalPath {
		critical[id] = true
	}
	criticalEdges := make(map[[2]int64]bool, len(opts.CriticalPath))
	for i := 1; i < len(opts.CriticalPath); i++ {
		criticalEdges[[2]int64{opts.CriticalPath[i], opts.CriticalPath[i-1]}] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rows := make(map[int][]int64)
	for _, n := range g.Nodes() {
		rows[n.Row] = append(rows[n.Row], n.ID)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n.ID), strings.Join(fmtAttrs(*n, opts.Detailed, critical[n.ID]), ", "))
	}

	if len(rows) > 1 {
		buf.WriteString("\n")
		for _, row := range slices.Sorted(maps.Keys(rows)) {
			ids := make([]string, len(rows[row]))
			for i, id := range rows[row] {
				ids[i] = nodeID(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s", nodeID(e.To), nodeID(e.From))
		if criticalEdges[[2]int64{e.From, e.To}] {
			fmt.Fprintf(&buf, " [color=%q, penwidth=2.5]", criticalColor)
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int64) string {
	return strconv.Quote(strconv.FormatInt(id, 10))
}

func fmtLabel(n dag.Node, detailed bool) string {
	title := n.Label
	if title == "" {
		title = strconv.FormatInt(n.ID, 10)
	}
	head := fmt.Sprintf("#%d %s", n.ID, title)
	if !detailed {
		return head
	}

	parts := []string{fmt.Sprintf("row: %d", n.Row)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, detailed, critical bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if critical {
		attrs = append(attrs, fmt.Sprintf("color=%q", criticalColor), fmt.Sprintf("fillcolor=%q", criticalFill), "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its
// container instead of using Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
