// Package render provides visualization of task graphs.
//
// The [nodelink] subpackage turns a [dag.DAG] into Graphviz DOT and renders
// it to SVG in-process. The HTTP API serves it from
// GET /api/todos/graph and the CLI from `taskgraph graph`.
//
//	g := dag.Build(tasks)
//	transform.Normalize(g)
//	dot := nodelink.ToDOT(g, nodelink.Options{CriticalPath: path})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/taskgraph/pkg/render/nodelink
// [dag.DAG]: github.com/matzehuels/taskgraph/pkg/dag.DAG
package render
