// Package storagetest provides a conformance suite run against every
// storage.Store implementation.
package storagetest

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

// Factory returns an empty store. The suite closes it when the subtest ends.
type Factory func(t *testing.T) storage.Store

// Run exercises s against the storage.Store contract.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"CreateAndGet", testCreateAndGet},
		{"CreateWithDependencies", testCreateWithDependencies},
		{"GetMissing", testGetMissing},
		{"ListNewestFirst", testListNewestFirst},
		{"ReplaceDependencies", testReplaceDependencies},
		{"ReplaceWithEmpty", testReplaceWithEmpty},
		{"ReplaceMissingTask", testReplaceMissingTask},
		{"DeleteRemovesBothDirections", testDeleteRemovesBothDirections},
		{"DeleteMissing", testDeleteMissing},
		{"TaskIDsAndEdges", testTaskIDsAndEdges},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func create(t *testing.T, s storage.Store, title string, deps ...int64) *task.Task {
	t.Helper()
	created, err := s.CreateTask(context.Background(), task.NewTask{Title: title, DependencyIDs: deps})
	require.NoError(t, err)
	return created
}

func testCreateAndGet(t *testing.T, s storage.Store) {
	ctx := context.Background()
	due := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	url := "https://images.example/1.jpeg"

	created, err := s.CreateTask(ctx, task.NewTask{Title: "Paint fence", DueDate: &due, ImageURL: &url})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Paint fence", created.Title)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Empty(t, created.Dependencies)

	got, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, url, *got.ImageURL)

	bare := create(t, s, "No extras")
	assert.Nil(t, bare.DueDate)
	assert.Nil(t, bare.ImageURL)
}

func testCreateWithDependencies(t *testing.T, s storage.Store) {
	a := create(t, s, "A")
	b := create(t, s, "B")
	c := create(t, s, "C", a.ID, b.ID, a.ID)

	require.Len(t, c.Dependencies, 2)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, c.DependencyIDs())
	for _, d := range c.Dependencies {
		assert.Empty(t, d.Dependencies, "resolved dependencies are one level deep")
	}
}

func testGetMissing(t *testing.T, s storage.Store) {
	_, err := s.GetTask(context.Background(), 4242)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testListNewestFirst(t *testing.T, s storage.Store) {
	ctx := context.Background()

	empty, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a := create(t, s, "A")
	b := create(t, s, "B", a.ID)
	c := create(t, s, "C")

	list, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	ids := []int64{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, ids)
	assert.Equal(t, []int64{a.ID}, list[1].DependencyIDs())
}

func testReplaceDependencies(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := create(t, s, "A")
	b := create(t, s, "B")
	c := create(t, s, "C", a.ID)

	require.NoError(t, s.ReplaceDependencies(ctx, c.ID, []int64{b.ID, b.ID}))

	got, err := s.GetTask(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, got.DependencyIDs())
}

func testReplaceWithEmpty(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := create(t, s, "A")
	b := create(t, s, "B", a.ID)

	require.NoError(t, s.ReplaceDependencies(ctx, b.ID, nil))

	got, err := s.GetTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Dependencies)

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func testReplaceMissingTask(t *testing.T, s storage.Store) {
	err := s.ReplaceDependencies(context.Background(), 4242, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDeleteRemovesBothDirections(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := create(t, s, "A")
	b := create(t, s, "B", a.ID)
	c := create(t, s, "C", b.ID)

	require.NoError(t, s.DeleteTask(ctx, b.ID))

	_, err := s.GetTask(ctx, b.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.GetTask(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Dependencies)

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)

	ids, err := s.TaskIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, ids)
}

func testDeleteMissing(t *testing.T, s storage.Store) {
	err := s.DeleteTask(context.Background(), 4242)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testTaskIDsAndEdges(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := create(t, s, "A")
	b := create(t, s, "B", a.ID)
	c := create(t, s, "C", a.ID, b.ID)

	ids, err := s.TaskIDs(ctx)
	require.NoError(t, err)
	assert.True(t, slices.IsSorted(ids))
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids)

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []task.Edge{
		{TaskID: b.ID, DependsOnID: a.ID},
		{TaskID: c.ID, DependsOnID: a.ID},
		{TaskID: c.ID, DependsOnID: b.ID},
	}, edges)
}
