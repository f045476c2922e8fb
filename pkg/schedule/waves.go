package schedule

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// Wave is a group of tasks sharing an earliest start date. Tasks in the
// same wave have no dependencies on each other and can run in parallel.
type Wave struct {
	Index    int
	Start    time.Time
	TaskIDs  []int64 // critical tasks first, then by ascending ID
	Critical bool    // true if the wave contains a critical-path task
}

// Waves groups analysis records by earliest start date, earliest first.
// Records without a start date are skipped.
func Waves(records []task.Analysis) []Wave {
	groups := make(map[time.Time][]task.Analysis)
	var starts []time.Time
	for _, r := range records {
		if r.EarliestStartDate == nil {
			continue
		}
		key := r.EarliestStartDate.UTC()
		if _, ok := groups[key]; !ok {
			starts = append(starts, key)
		}
		groups[key] = append(groups[key], r)
	}
	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })

	waves := make([]Wave, len(starts))
	for i, start := range starts {
		group := groups[start]
		slices.SortFunc(group, func(a, b task.Analysis) int {
			if a.CriticalPath != b.CriticalPath {
				if a.CriticalPath {
					return -1
				}
				return 1
			}
			return cmp.Compare(a.ID, b.ID)
		})

		w := Wave{Index: i, Start: start, TaskIDs: make([]int64, len(group))}
		for j, r := range group {
			w.TaskIDs[j] = r.ID
			w.Critical = w.Critical || r.CriticalPath
		}
		waves[i] = w
	}
	return waves
}
