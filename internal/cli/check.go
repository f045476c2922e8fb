package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCommand creates the graph integrity check command.
func (c *CLI) checkCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the stored dependency graph for cycles",
		Long: `Check the stored dependency graph for cycles and dangling edges.

Cycles cannot be created through taskgraph itself, but a database edited by
hand or by another tool may contain them. With --fix, one edge of every
cycle is removed so that analysis can run again, along with dependencies
on tasks that no longer exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Check(cmd.Context())
			if err != nil {
				return err
			}
			printStats(c.out, res.Tasks, res.Edges, 0)

			if res.Dangling > 0 {
				printWarning(c.out, "%d dependencies point at missing tasks", res.Dangling)
			}
			if len(res.Cycle) == 0 {
				printSuccess(c.out, "No circular dependencies")
			} else {
				printWarning(c.out, "Circular dependency: %s", formatPath(append(res.Cycle, res.Cycle[0])))
			}
			if res.OK() {
				return nil
			}
			if !fix {
				printNextStep(c.out, "Repair the graph", appName+" check --fix")
				if len(res.Cycle) > 0 {
					return fmt.Errorf("dependency graph contains a cycle")
				}
				return nil
			}

			removed, err := svc.Repair(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range removed {
				printDetail(c.out, "removed #%d %s #%d", e.TaskID, iconArrow, e.DependsOnID)
			}
			printSuccess(c.out, "Removed %d dependencies", len(removed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "remove dependencies that close a cycle or point at missing tasks")
	return cmd
}
