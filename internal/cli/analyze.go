package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/schedule"
	"github.com/matzehuels/taskgraph/pkg/task"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		output string
		waves  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute earliest start dates and the critical path",
		Long: `Compute the earliest start date of every task and the critical path.

Every task takes one day. A task can start once all of its dependencies
have finished; tasks without dependencies start today. The critical path
is the longest chain of dependencies ending at the latest-finishing task.

With --waves, tasks are grouped by start date: each wave can be worked on
in parallel once the previous waves are done.`,
		Example: `  taskgraph analyze
  taskgraph analyze --waves
  taskgraph analyze -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			prog := newProgress(c.Logger)
			report, err := svc.Analyze(cmd.Context())
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Analyzed %d tasks", len(report.Todos)))

			if waves {
				ws := schedule.Waves(report.Analysis)
				if done, err := writeStructured(c.out, output, waveViews(ws, svc.Location)); done {
					return err
				}
				titles := make(map[int64]string, len(report.Analysis))
				for _, r := range report.Analysis {
					titles[r.ID] = r.Title
				}
				if len(ws) == 0 {
					printInfo(c.out, "No tasks to schedule")
					return nil
				}
				fmt.Fprintln(c.out, renderWavesTable(ws, titles, svc.Location))
				return nil
			}

			if done, err := writeStructured(c.out, output, report); done {
				return err
			}
			if len(report.Analysis) == 0 {
				printInfo(c.out, "No tasks to analyze")
				return nil
			}
			fmt.Fprintln(c.out, renderAnalysisTable(report.Analysis, svc.Location))
			printStats(c.out, len(report.Todos), countEdges(report.Analysis), len(report.CriticalPath))
			if len(report.CriticalPath) > 0 {
				printKeyValue(c.out, "Critical", StyleCritical.Render(formatPath(report.CriticalPath)))
			}
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&waves, "waves", false, "group tasks into waves that can run in parallel")
	return cmd
}

// waveView is the structured form of a schedule.Wave.
type waveView struct {
	Wave     int     `json:"wave" yaml:"wave"`
	Start    string  `json:"start" yaml:"start"`
	Tasks    []int64 `json:"tasks" yaml:"tasks"`
	Critical bool    `json:"critical" yaml:"critical"`
}

func waveViews(ws []schedule.Wave, loc *time.Location) []waveView {
	views := make([]waveView, len(ws))
	for i, w := range ws {
		views[i] = waveView{
			Wave:     w.Index + 1,
			Start:    w.Start.In(loc).Format(time.DateOnly),
			Tasks:    w.TaskIDs,
			Critical: w.Critical,
		}
	}
	return views
}

func countEdges(records []task.Analysis) int {
	n := 0
	for _, r := range records {
		n += len(r.Dependencies)
	}
	return n
}

// formatPath renders a chain of ids as "#1 → #2 → #3".
func formatPath(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}
