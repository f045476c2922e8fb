package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/taskgraph/pkg/errors"
	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/tasks"
)

// taskCommand creates the "task" command group.
func (c *CLI) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"todo", "t"},
		Short:   "Create, inspect and link tasks",
	}

	cmd.AddCommand(c.taskAddCommand())
	cmd.AddCommand(c.taskListCommand())
	cmd.AddCommand(c.taskShowCommand())
	cmd.AddCommand(c.taskDepsCommand())
	cmd.AddCommand(c.taskRemoveCommand())

	return cmd
}

func (c *CLI) taskAddCommand() *cobra.Command {
	var (
		due  string
		deps []int64
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. The title may span several arguments.

If PEXELS_API_KEY is set, an illustrative image is looked up for the title.`,
		Example: `  taskgraph task add "Write report" --due 2025-03-14
  taskgraph task add Review draft --dep 1 --dep 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.CreateTask(cmd.Context(), tasks.CreateInput{
				Title:         strings.Join(args, " "),
				DueDate:       due,
				DependencyIDs: deps,
			})
			if err != nil {
				return err
			}

			printSuccess(c.out, "Created task #%d %s", t.ID, StyleHighlight.Render(t.Title))
			if t.DueDate != nil {
				printKeyValue(c.out, "Due", formatDate(t.DueDate, svc.Location))
			}
			if len(t.Dependencies) > 0 {
				printKeyValue(c.out, "Depends on", formatIDs(t.DependencyIDs()))
			}
			if t.ImageURL != nil {
				printKeyValue(c.out, "Image", StyleLink.Render(*t.ImageURL))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().Int64SliceVar(&deps, "dep", nil, "id of a task this one depends on (repeatable)")
	return cmd
}

func (c *CLI) taskListCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			if done, err := writeStructured(c.out, output, list); done {
				return err
			}

			if len(list) == 0 {
				printInfo(c.out, "No tasks yet")
				printNextStep(c.out, "Create one", appName+` task add "My first task"`)
				return nil
			}
			fmt.Fprintln(c.out, renderTaskTable(list, svc.Location))
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func (c *CLI) taskShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task and its direct dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			id, err := apperrors.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if done, err := writeStructured(c.out, output, t); done {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render(fmt.Sprintf("#%d %s", t.ID, t.Title)))
			printKeyValue(c.out, "Due", formatDate(t.DueDate, svc.Location))
			printKeyValue(c.out, "Created", formatDate(&t.CreatedAt, svc.Location))
			if t.ImageURL != nil {
				printKeyValue(c.out, "Image", StyleLink.Render(*t.ImageURL))
			}
			if len(t.Dependencies) == 0 {
				printKeyValue(c.out, "Depends on", noValue)
				return nil
			}
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, renderTaskTable(t.Dependencies, svc.Location))
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func (c *CLI) taskDepsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "deps <id> [dependency-id...]",
		Short: "Replace the dependencies of a task",
		Long: `Replace the full dependency set of a task.

With no dependency ids the task's dependencies are cleared. With --pick an
interactive list of tasks is shown instead. A set that would create a
circular dependency is rejected and nothing is changed.`,
		Example: `  taskgraph task deps 3 1 2
  taskgraph task deps 3 --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apperrors.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			deps := make([]int64, 0, len(args)-1)
			for _, raw := range args[1:] {
				dep, err := apperrors.ParseTaskID(raw)
				if err != nil {
					return err
				}
				deps = append(deps, dep)
			}
			if pick && len(deps) > 0 {
				return fmt.Errorf("--pick cannot be combined with dependency ids")
			}

			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if pick {
				target, err := svc.GetTask(cmd.Context(), id)
				if err != nil {
					return err
				}
				all, err := svc.ListTasks(cmd.Context())
				if err != nil {
					return err
				}
				chosen, ok, err := pickDependencies(*target, all)
				if err != nil {
					return err
				}
				if !ok {
					printInfo(c.out, "Cancelled, nothing changed")
					return nil
				}
				deps = chosen
			}

			t, err := svc.SetDependencies(cmd.Context(), id, deps)
			if err != nil {
				return err
			}
			c.printDependencies(t)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose dependencies interactively")
	return cmd
}

func (c *CLI) printDependencies(t *task.Task) {
	if len(t.Dependencies) == 0 {
		printSuccess(c.out, "Cleared dependencies of #%d %s", t.ID, t.Title)
		return
	}
	printSuccess(c.out, "#%d %s now depends on %s", t.ID, t.Title, formatIDs(t.DependencyIDs()))
}

func (c *CLI) taskRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and every dependency edge touching it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apperrors.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(c.out, "Deleted task #%d", id)
			return nil
		},
	}
}
