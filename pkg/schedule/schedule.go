package schedule

import (
	"slices"
	"time"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// Result is the outcome of [Analyze].
type Result struct {
	// Records holds one record per input task, in input order.
	Records []task.Analysis
	// CriticalPath lists task IDs from earliest to latest.
	CriticalPath []int64
}

// Analyze computes earliest start dates, the critical path and the
// dependents of every task. now is the start date of tasks without
// dependencies.
func Analyze(tasks []task.Task, now time.Time) *Result {
	a := newAnalyzer(tasks)
	starts := a.earliestStarts(now)
	path := a.criticalPath(starts)
	dependents := a.dependents()

	onPath := make(map[int64]bool, len(path))
	for _, id := range path {
		onPath[id] = true
	}

	records := make([]task.Analysis, 0, len(a.order))
	for _, id := range a.order {
		start := starts[id]
		records = append(records, task.Analysis{
			ID:                id,
			Title:             a.titles[id],
			EarliestStartDate: &start,
			Duration:          task.Duration,
			CriticalPath:      onPath[id],
			Dependencies:      slices.Clone(a.deps[id]),
			Dependents:        dependents[id],
		})
	}
	return &Result{Records: records, CriticalPath: path}
}

// finish is the earliest finish date for a given start.
func finish(start time.Time) time.Time {
	return start.AddDate(0, 0, task.Duration)
}

// analyzer indexes one snapshot. It is built per call and never shared.
type analyzer struct {
	order  []int64           // task IDs in input order, first occurrence only
	titles map[int64]string  // task ID -> title
	deps   map[int64][]int64 // task ID -> dependencies present in the input
}

func newAnalyzer(tasks []task.Task) *analyzer {
	a := &analyzer{
		order:  make([]int64, 0, len(tasks)),
		titles: make(map[int64]string, len(tasks)),
		deps:   make(map[int64][]int64, len(tasks)),
	}
	for _, t := range tasks {
		if _, dup := a.titles[t.ID]; dup {
			continue
		}
		a.order = append(a.order, t.ID)
		a.titles[t.ID] = t.Title
	}

	seen := make(map[int64]bool)
	for _, t := range tasks {
		if _, done := a.deps[t.ID]; done {
			continue
		}
		clear(seen)
		deps := make([]int64, 0, len(t.Dependencies))
		for _, d := range t.Dependencies {
			if _, ok := a.titles[d.ID]; !ok || seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			deps = append(deps, d.ID)
		}
		a.deps[t.ID] = deps
	}
	return a
}

// earliestStarts computes start dates with a memoized post-order
// traversal. Each task is resolved once. A dependency still being resolved
// when it is reached again can only come from a cycle; it is skipped so
// that the traversal terminates.
func (a *analyzer) earliestStarts(now time.Time) map[int64]time.Time {
	type frame struct {
		id   int64
		next int
	}

	starts := make(map[int64]time.Time, len(a.order))
	active := make(map[int64]bool)

	for _, root := range a.order {
		if _, ok := starts[root]; ok {
			continue
		}
		active[root] = true
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := a.deps[top.id]
			if top.next < len(deps) {
				d := deps[top.next]
				top.next++
				if _, ok := starts[d]; ok || active[d] {
					continue
				}
				active[d] = true
				stack = append(stack, frame{id: d})
				continue
			}

			start := now
			for _, d := range deps {
				if s, ok := starts[d]; ok {
					if f := finish(s); f.After(start) {
						start = f
					}
				}
			}
			starts[top.id] = start
			active[top.id] = false
			stack = stack[:len(stack)-1]
		}
	}
	return starts
}

// criticalPath finds the task with the latest finish and walks back
// through the latest-finishing dependency of each task.
func (a *analyzer) criticalPath(starts map[int64]time.Time) []int64 {
	terminal, ok := a.latest(a.order, starts)
	if !ok {
		return []int64{}
	}

	path := []int64{terminal}
	seen := map[int64]bool{terminal: true}
	for cur := terminal; ; {
		next, ok := a.latest(a.deps[cur], starts)
		if !ok || seen[next] {
			break
		}
		path = append(path, next)
		seen[next] = true
		cur = next
	}

	slices.Reverse(path)
	return path
}

// latest returns the candidate with the latest finish, breaking ties by
// lowest ID.
func (a *analyzer) latest(candidates []int64, starts map[int64]time.Time) (int64, bool) {
	var (
		best       int64
		bestFinish time.Time
		found      bool
	)
	for _, id := range candidates {
		s, ok := starts[id]
		if !ok {
			continue
		}
		f := finish(s)
		if !found || f.After(bestFinish) || (f.Equal(bestFinish) && id < best) {
			best, bestFinish, found = id, f, true
		}
	}
	return best, found
}

func (a *analyzer) dependents() map[int64][]int64 {
	out := make(map[int64][]int64, len(a.order))
	for _, id := range a.order {
		out[id] = []int64{}
	}
	for _, id := range a.order {
		for _, d := range a.deps[id] {
			out[d] = append(out[d], id)
		}
	}
	return out
}
