package tasks

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/taskgraph/pkg/dag"
	"github.com/matzehuels/taskgraph/pkg/dag/transform"
	apperrors "github.com/matzehuels/taskgraph/pkg/errors"
	"github.com/matzehuels/taskgraph/pkg/observability"
	"github.com/matzehuels/taskgraph/pkg/schedule"
	"github.com/matzehuels/taskgraph/pkg/task"
)

// Report is the result of [Service.Analyze]: every task together with its
// scheduling record.
type Report struct {
	Todos        []task.Task     `json:"todos" yaml:"todos"`
	Analysis     []task.Analysis `json:"analysis" yaml:"analysis"`
	CriticalPath []int64         `json:"criticalPath" yaml:"criticalPath"`
}

// Analyze loads every task and runs the schedule analyzer over them.
// Records follow the order of Todos, newest first.
func (s *Service) Analyze(ctx context.Context) (*Report, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	hooks := observability.Tasks()
	hooks.OnAnalyzeStart(ctx, len(tasks))
	start := time.Now()

	res := schedule.Analyze(tasks, s.Now())

	elapsed := time.Since(start)
	hooks.OnAnalyzeComplete(ctx, len(tasks), len(res.CriticalPath), elapsed)
	s.Logger.Debug("analyzed tasks", "tasks", len(tasks), "critical", len(res.CriticalPath), "duration", elapsed)

	report := &Report{
		Todos:        tasks,
		Analysis:     res.Records,
		CriticalPath: res.CriticalPath,
	}
	if report.Analysis == nil {
		report.Analysis = []task.Analysis{}
	}
	if report.CriticalPath == nil {
		report.CriticalPath = []int64{}
	}
	return report, nil
}

// GraphOptions configures [Service.Graph].
type GraphOptions struct {
	// Reduce drops dependency edges implied by longer chains before layering.
	Reduce bool
}

// Graph builds the labelled dependency graph of every task with rows
// assigned, and returns it together with the critical path. Node metadata
// carries "start" and, when set, "due" as YYYY-MM-DD strings.
func (s *Service) Graph(ctx context.Context, opts GraphOptions) (*dag.DAG, []int64, error) {
	report, err := s.Analyze(ctx)
	if err != nil {
		return nil, nil, err
	}

	g := dag.Build(report.Todos)
	if opts.Reduce {
		transform.Normalize(g)
	} else {
		transform.AssignLayers(g)
	}

	for _, t := range report.Todos {
		if n, ok := g.Node(t.ID); ok && t.DueDate != nil {
			n.Meta["due"] = t.DueDate.In(s.Location).Format(time.DateOnly)
		}
	}
	for _, r := range report.Analysis {
		if n, ok := g.Node(r.ID); ok && r.EarliestStartDate != nil {
			n.Meta["start"] = r.EarliestStartDate.In(s.Location).Format(time.DateOnly)
		}
	}
	return g, report.CriticalPath, nil
}

// CheckResult summarizes the integrity of the persisted graph.
type CheckResult struct {
	Tasks    int     `json:"tasks" yaml:"tasks"`
	Edges    int     `json:"edges" yaml:"edges"`       // stored edges, dangling ones included
	Dangling int     `json:"dangling" yaml:"dangling"` // edges whose endpoints no longer exist
	Cycle    []int64 `json:"cycle" yaml:"cycle"`       // one cycle, empty when the graph is acyclic
}

// OK reports whether the graph is acyclic and free of dangling edges.
func (r *CheckResult) OK() bool {
	return r.Dangling == 0 && len(r.Cycle) == 0
}

// Check loads the full graph and looks for cycles and dangling edges.
// Cycles cannot be created through [Service.SetDependencies]; this
// detects stores edited by other means.
func (s *Service) Check(ctx context.Context) (*CheckResult, error) {
	g, edges, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{Tasks: g.NodeCount(), Edges: len(edges), Cycle: []int64{}}
	for _, e := range edges {
		if _, ok := g.Node(e.TaskID); !ok {
			res.Dangling++
		} else if _, ok := g.Node(e.DependsOnID); !ok {
			res.Dangling++
		}
	}
	if cycle := g.FindCycle(); cycle != nil {
		res.Cycle = cycle
	}
	return res, nil
}

// Repair breaks every cycle in the persisted graph by removing back edges,
// drops dependencies on tasks that no longer exist, and returns the removed
// edges. Each affected task's dependency set is rewritten in its own
// transaction. Dangling edges whose dependent task is gone cannot be
// addressed through the store and are left in place.
func (s *Service) Repair(ctx context.Context) ([]task.Edge, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	g, edges, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := []task.Edge{}
	var affected []int64
	for _, e := range edges {
		if _, ok := g.Node(e.TaskID); !ok {
			continue
		}
		if _, ok := g.Node(e.DependsOnID); !ok {
			out = append(out, e)
			affected = append(affected, e.TaskID)
		}
	}
	for _, e := range transform.BreakCycles(g) {
		out = append(out, task.Edge{TaskID: e.From, DependsOnID: e.To})
		affected = append(affected, e.From)
	}
	if len(out) == 0 {
		return out, nil
	}

	slices.Sort(affected)
	for _, id := range slices.Compact(affected) {
		deps := g.Dependencies(id)
		if err := s.Store.ReplaceDependencies(ctx, id, deps); err != nil {
			return nil, notFoundOr(err, "Error repairing dependencies")
		}
		s.Logger.Info("repaired dependencies", "task", id, "deps", len(deps))
	}
	return out, nil
}

func (s *Service) snapshot(ctx context.Context) (*dag.DAG, []task.Edge, error) {
	ids, err := s.taskIDs(ctx)
	if err != nil {
		return nil, nil, err
	}
	edges, err := s.Store.Edges(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "Error loading dependencies")
	}
	return dag.FromSnapshot(ids, edges), edges, nil
}
