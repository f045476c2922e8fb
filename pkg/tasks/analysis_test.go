package tasks

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/task"
)

func TestAnalyzeEmpty(t *testing.T) {
	svc := setupService(t, nil)

	report, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Todos)
	assert.NotNil(t, report.Analysis)
	assert.Empty(t, report.Analysis)
	assert.Empty(t, report.CriticalPath)
}

func TestAnalyzeChain(t *testing.T) {
	svc := setupService(t, nil)
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)
	c := mustCreate(t, svc, "C", b.ID)
	d := mustCreate(t, svc, "D")

	report, err := svc.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, report.CriticalPath)
	require.Len(t, report.Analysis, 4)

	byID := make(map[int64]task.Analysis)
	for _, r := range report.Analysis {
		byID[r.ID] = r
	}
	assert.Equal(t, testNow, *byID[a.ID].EarliestStartDate)
	assert.Equal(t, testNow.AddDate(0, 0, 1), *byID[b.ID].EarliestStartDate)
	assert.Equal(t, testNow.AddDate(0, 0, 2), *byID[c.ID].EarliestStartDate)
	assert.False(t, byID[d.ID].CriticalPath)
	assert.True(t, byID[c.ID].CriticalPath)
	assert.Equal(t, []int64{b.ID}, byID[a.ID].Dependents)

	// Records follow the listing order, newest first.
	assert.Equal(t, d.ID, report.Analysis[0].ID)
	assert.Equal(t, report.Todos[0].ID, report.Analysis[0].ID)
}

func TestGraph(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)
	c, err := svc.CreateTask(ctx, CreateInput{Title: "C", DueDate: "2025-03-20", DependencyIDs: []int64{a.ID, b.ID}})
	require.NoError(t, err)

	g, path, err := svc.Graph(ctx, GraphOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, path)
	assert.Equal(t, 3, g.EdgeCount())

	n, ok := g.Node(c.ID)
	require.True(t, ok)
	assert.Equal(t, 2, n.Row)
	assert.Equal(t, "C", n.Label)
	assert.Equal(t, "2025-03-20", n.Meta["due"])
	assert.Equal(t, testNow.AddDate(0, 0, 2).Format(time.DateOnly), n.Meta["start"])

	reduced, _, err := svc.Graph(ctx, GraphOptions{Reduce: true})
	require.NoError(t, err)
	assert.Equal(t, 2, reduced.EdgeCount())
	assert.False(t, reduced.HasEdge(c.ID, a.ID))
}

func TestCheckClean(t *testing.T) {
	svc := setupService(t, nil)
	a := mustCreate(t, svc, "A")
	mustCreate(t, svc, "B", a.ID)

	res, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 2, res.Tasks)
	assert.Equal(t, 1, res.Edges)
	assert.Empty(t, res.Cycle)
}

func TestCheckAndRepairCycle(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)

	// Write a cycle directly, bypassing the service's check.
	require.NoError(t, svc.Store.ReplaceDependencies(ctx, a.ID, []int64{b.ID}))

	res, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, res.Cycle)

	removed, err := svc.Repair(ctx)
	require.NoError(t, err)
	require.Len(t, removed, 1)

	res, err = svc.Check(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Edges)
}

func TestRepairNoop(t *testing.T) {
	svc := setupService(t, nil)
	mustCreate(t, svc, "A")

	removed, err := svc.Repair(context.Background())
	require.NoError(t, err)
	assert.Empty(t, removed)
}

// danglingStore reports one extra edge to a task that does not exist, as a
// document store without foreign keys can hold after a partial delete.
type danglingStore struct {
	storage.Store
	extra *task.Edge
}

func (s *danglingStore) Edges(ctx context.Context) ([]task.Edge, error) {
	edges, err := s.Store.Edges(ctx)
	if err != nil || s.extra == nil {
		return edges, err
	}
	return append(edges, *s.extra), nil
}

func (s *danglingStore) ReplaceDependencies(ctx context.Context, id int64, depIDs []int64) error {
	if s.extra != nil && s.extra.TaskID == id {
		if slices.Contains(depIDs, s.extra.DependsOnID) {
			depIDs = slices.DeleteFunc(slices.Clone(depIDs), func(d int64) bool { return d == s.extra.DependsOnID })
		} else {
			s.extra = nil
		}
	}
	return s.Store.ReplaceDependencies(ctx, id, depIDs)
}

func TestCheckAndRepairDangling(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)
	svc.Store = &danglingStore{Store: svc.Store, extra: &task.Edge{TaskID: b.ID, DependsOnID: 999}}

	res, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, 2, res.Edges)
	assert.Equal(t, 1, res.Dangling)
	assert.Empty(t, res.Cycle)

	removed, err := svc.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Edge{{TaskID: b.ID, DependsOnID: 999}}, removed)

	res, err = svc.Check(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Edges)

	got, err := svc.GetTask(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Dependencies, 1)
	assert.Equal(t, a.ID, got.Dependencies[0].ID)
}
