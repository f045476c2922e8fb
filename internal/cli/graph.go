package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/dag"
	graphio "github.com/matzehuels/taskgraph/pkg/io"
	"github.com/matzehuels/taskgraph/pkg/render/nodelink"
	"github.com/matzehuels/taskgraph/pkg/tasks"
)

// Graph export formats. JSON shares formatJSON with --output.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		input    string
		reduce   bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the dependency graph as DOT, SVG or JSON",
		Long: `Export the dependency graph. Arrows point from a dependency to the task
that waits on it, tasks are ranked by dependency depth and the critical path
is highlighted.

The json format is a snapshot that --input can render again later without
access to the task store.`,
		Example: `  taskgraph graph > tasks.dot
  taskgraph graph --format svg -o tasks.svg --reduce
  taskgraph graph --format json -o plan.json
  taskgraph graph --input plan.json --format svg -o plan.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG && format != formatJSON {
				return fmt.Errorf("unknown graph format %q (want dot, svg or json)", format)
			}

			var (
				g        *dag.DAG
				critical []int64
				err      error
			)
			if input != "" {
				g, critical, err = graphio.ImportJSON(input)
			} else {
				g, critical, err = c.loadGraph(cmd.Context(), reduce)
			}
			if err != nil {
				return err
			}

			data, err := encodeGraph(cmd.Context(), g, critical, format, detailed)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := c.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(c.out, "Exported %d tasks", g.NodeCount())
			printFile(c.out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "render a graph exported with --format json instead of the store")
	cmd.Flags().BoolVar(&reduce, "reduce", false, "drop dependencies implied by longer chains")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include due and start dates in node labels")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatDOT, formatSVG, formatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) loadGraph(ctx context.Context, reduce bool) (*dag.DAG, []int64, error) {
	svc, closeFn, err := c.openService(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()
	return svc.Graph(ctx, tasks.GraphOptions{Reduce: reduce})
}

func encodeGraph(ctx context.Context, g *dag.DAG, critical []int64, format string, detailed bool) ([]byte, error) {
	if format == formatJSON {
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, critical, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed, CriticalPath: critical})
	if format == formatDOT {
		return []byte(dot), nil
	}

	sp := newSpinner(ctx, "Rendering SVG...")
	sp.Start()
	defer sp.Stop()
	return nodelink.RenderSVG(ctx, dot)
}
