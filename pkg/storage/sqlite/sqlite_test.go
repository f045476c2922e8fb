package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/storage/storagetest"
	"github.com/matzehuels/taskgraph/pkg/task"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	return s
}

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return setupTestStore(t)
	})
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	a, err := s.CreateTask(ctx, task.NewTask{Title: "A"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, task.NewTask{Title: "B", DependencyIDs: []int64{a.ID}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestCreateRollsBackOnUnknownDependency(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	defer s.Close()

	_, err := s.CreateTask(ctx, task.NewTask{Title: "orphan", DependencyIDs: []int64{999}})
	require.Error(t, err)

	ids, err := s.TaskIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "failed insert must not leave a task behind")
}

func TestReplaceRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	defer s.Close()

	a, err := s.CreateTask(ctx, task.NewTask{Title: "A"})
	require.NoError(t, err)
	b, err := s.CreateTask(ctx, task.NewTask{Title: "B", DependencyIDs: []int64{a.ID}})
	require.NoError(t, err)

	// 999 violates the foreign key, so the delete of 2 -> 1 must roll back.
	err = s.ReplaceDependencies(ctx, b.ID, []int64{999})
	require.Error(t, err)

	got, err := s.GetTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, got.DependencyIDs())
}

func TestSelfDependencyRejectedBySchema(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	defer s.Close()

	a, err := s.CreateTask(ctx, task.NewTask{Title: "A"})
	require.NoError(t, err)
	assert.Error(t, s.ReplaceDependencies(ctx, a.ID, []int64{a.ID}))
}

func TestListOrdersByCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	defer s.Close()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base.Add(2 * time.Hour), base, base.Add(time.Hour)}
	var ids []int64
	for i, ts := range stamps {
		s.now = func() time.Time { return ts }
		created, err := s.CreateTask(ctx, task.NewTask{Title: string(rune('A' + i))})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	list, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{ids[0], ids[2], ids[1]}, []int64{list[0].ID, list[1].ID, list[2].ID})
	assert.True(t, list[0].CreatedAt.Equal(stamps[0]))
}
