package tasks

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskgraph/pkg/dag"
	apperrors "github.com/matzehuels/taskgraph/pkg/errors"
	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/storage/sqlite"
	"github.com/matzehuels/taskgraph/pkg/task"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeImages struct {
	url   string
	err   error
	calls int
}

func (f *fakeImages) SearchImage(context.Context, string) (string, error) {
	f.calls++
	return f.url, f.err
}

func setupService(t *testing.T, images ImageFinder) *Service {
	t.Helper()
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := NewService(store, images, log.New(io.Discard))
	svc.Now = func() time.Time { return testNow }
	svc.Location = time.UTC
	return svc
}

func mustCreate(t *testing.T, svc *Service, title string, deps ...int64) *task.Task {
	t.Helper()
	created, err := svc.CreateTask(context.Background(), CreateInput{Title: title, DependencyIDs: deps})
	require.NoError(t, err)
	return created
}

func assertCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.GetCode(err), "err = %v", err)
}

func TestCreateTask(t *testing.T) {
	images := &fakeImages{url: "https://images.pexels.com/photo.jpg"}
	svc := setupService(t, images)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateInput{Title: "  Buy milk  ", DueDate: "2025-04-01"})
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", created.Title)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC), created.DueDate.UTC())
	require.NotNil(t, created.ImageURL)
	assert.Equal(t, images.url, *created.ImageURL)
	assert.Equal(t, 1, images.calls)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateInput{Title: "   "})
	assertCode(t, err, apperrors.ErrCodeInvalidInput)

	_, err = svc.CreateTask(ctx, CreateInput{Title: "x", DueDate: "tomorrow"})
	assertCode(t, err, apperrors.ErrCodeInvalidDate)

	_, err = svc.CreateTask(ctx, CreateInput{Title: "x", DependencyIDs: []int64{0}})
	assertCode(t, err, apperrors.ErrCodeInvalidID)

	_, err = svc.CreateTask(ctx, CreateInput{Title: "x", DependencyIDs: []int64{42}})
	assertCode(t, err, apperrors.ErrCodeNotFound)

	all, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateTaskImageFailureIsNotFatal(t *testing.T) {
	svc := setupService(t, &fakeImages{err: errors.New("pexels down")})

	created, err := svc.CreateTask(context.Background(), CreateInput{Title: "Walk dog"})
	require.NoError(t, err)
	assert.Nil(t, created.ImageURL)
}

func TestCreateTaskRejectsUnsafeImageURL(t *testing.T) {
	svc := setupService(t, &fakeImages{url: "javascript:alert(1)"})

	created, err := svc.CreateTask(context.Background(), CreateInput{Title: "Walk dog"})
	require.NoError(t, err)
	assert.Nil(t, created.ImageURL)
}

func TestCreateTaskWithDependencies(t *testing.T) {
	svc := setupService(t, nil)
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)

	assert.Equal(t, []int64{a.ID}, b.DependencyIDs())
}

func TestGetTask(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")

	got, err := svc.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)

	_, err = svc.GetTask(ctx, 999)
	assertCode(t, err, apperrors.ErrCodeTaskNotFound)

	_, err = svc.GetTask(ctx, -1)
	assertCode(t, err, apperrors.ErrCodeInvalidID)
}

func TestListTasksNewestFirst(t *testing.T) {
	svc := setupService(t, nil)
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B")

	all, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
}

func TestDeleteTask(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)

	require.NoError(t, svc.DeleteTask(ctx, a.ID))

	got, err := svc.GetTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Dependencies)

	assertCode(t, svc.DeleteTask(ctx, a.ID), apperrors.ErrCodeTaskNotFound)
	assertCode(t, svc.DeleteTask(ctx, 0), apperrors.ErrCodeInvalidID)
}

func TestSetDependencies(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B")
	c := mustCreate(t, svc, "C")

	got, err := svc.SetDependencies(ctx, c.ID, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, got.DependencyIDs())

	got, err = svc.SetDependencies(ctx, c.ID, []int64{b.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, got.DependencyIDs())
}

func TestSetDependenciesEmptyClears(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)

	got, err := svc.SetDependencies(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Dependencies)

	edges, err := svc.Store.Edges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestSetDependenciesRejectsSelf(t *testing.T) {
	svc := setupService(t, nil)
	a := mustCreate(t, svc, "A")

	_, err := svc.SetDependencies(context.Background(), a.ID, []int64{a.ID})
	assertCode(t, err, apperrors.ErrCodeCycleDetected)
	assert.Equal(t, "Circular dependency detected", apperrors.UserMessage(err))
}

func TestSetDependenciesRejectsCycleWithoutWriting(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B", a.ID)
	c := mustCreate(t, svc, "C", b.ID)

	before, err := svc.Store.Edges(ctx)
	require.NoError(t, err)

	_, err = svc.SetDependencies(ctx, a.ID, []int64{c.ID})
	assertCode(t, err, apperrors.ErrCodeCycleDetected)

	_, err = svc.SetDependencies(ctx, a.ID, []int64{b.ID})
	assertCode(t, err, apperrors.ErrCodeCycleDetected)

	after, err := svc.Store.Edges(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestSetDependenciesNotFound(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")

	_, err := svc.SetDependencies(ctx, 999, []int64{a.ID})
	assertCode(t, err, apperrors.ErrCodeTaskNotFound)

	_, err = svc.SetDependencies(ctx, a.ID, []int64{999})
	assertCode(t, err, apperrors.ErrCodeNotFound)

	_, err = svc.SetDependencies(ctx, a.ID, []int64{-3})
	assertCode(t, err, apperrors.ErrCodeInvalidID)
}

func TestSetDependenciesKeepsGraphAcyclic(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, mustCreate(t, svc, title).ID)
	}

	// Try every ordered pair; accepted updates must never create a cycle.
	for _, from := range ids {
		for _, to := range ids {
			current, err := svc.GetTask(ctx, from)
			require.NoError(t, err)
			_, _ = svc.SetDependencies(ctx, from, append(current.DependencyIDs(), to))

			all, err := svc.Store.TaskIDs(ctx)
			require.NoError(t, err)
			edges, err := svc.Store.Edges(ctx)
			require.NoError(t, err)
			require.NoError(t, dag.FromSnapshot(all, edges).Validate())
		}
	}
}

// slowEdgesStore widens the window between reading the edge set and
// writing the new dependencies.
type slowEdgesStore struct {
	storage.Store
}

func (s *slowEdgesStore) Edges(ctx context.Context) ([]task.Edge, error) {
	edges, err := s.Store.Edges(ctx)
	time.Sleep(5 * time.Millisecond)
	return edges, err
}

func TestSetDependenciesConcurrentOppositeEdges(t *testing.T) {
	svc := setupService(t, nil)
	svc.Store = &slowEdgesStore{Store: svc.Store}
	ctx := context.Background()

	const pairs = 20
	type pair struct{ a, b int64 }
	ps := make([]pair, pairs)
	for i := range ps {
		ps[i] = pair{mustCreate(t, svc, "A").ID, mustCreate(t, svc, "B").ID}
	}

	var wg sync.WaitGroup
	errs := make([][2]error, pairs)
	for i, p := range ps {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[i][0] = svc.SetDependencies(ctx, p.a, []int64{p.b})
		}()
		go func() {
			defer wg.Done()
			_, errs[i][1] = svc.SetDependencies(ctx, p.b, []int64{p.a})
		}()
	}
	wg.Wait()

	for i, e := range errs {
		if e[0] == nil {
			assertCode(t, e[1], apperrors.ErrCodeCycleDetected)
		} else {
			assertCode(t, e[0], apperrors.ErrCodeCycleDetected)
			assert.NoError(t, e[1], "pair %d", i)
		}
	}

	res, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Cycle)
	assert.Equal(t, pairs, res.Edges)
}
