package tasks

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskgraph/pkg/dag"
	apperrors "github.com/matzehuels/taskgraph/pkg/errors"
	"github.com/matzehuels/taskgraph/pkg/observability"
	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/task"
)

// ImageFinder looks up an illustration for a task title. An empty URL
// with a nil error means nothing was found.
type ImageFinder interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// Service implements the task operations on top of a store.
//
// One instance serves concurrent requests. Graph writes are serialized
// within the instance so that the cycle check and the write it guards see
// the same edge set; reads are not.
type Service struct {
	Store    storage.Store
	Images   ImageFinder      // optional; nil disables image lookup
	Logger   *log.Logger      // never nil after NewService
	Now      func() time.Time // start date for tasks without dependencies
	Location *time.Location   // zone in which calendar due dates are placed

	writeMu sync.Mutex // held from snapshot to commit of every graph write
}

// NewService creates a service over store. images may be nil.
// If logger is nil, log.Default() is used.
func NewService(store storage.Store, images ImageFinder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Store:    store,
		Images:   images,
		Logger:   logger,
		Now:      time.Now,
		Location: time.Local,
	}
}

// CreateInput is the raw input for [Service.CreateTask].
type CreateInput struct {
	Title         string  `json:"title"`
	DueDate       string  `json:"dueDate,omitempty"`
	DependencyIDs []int64 `json:"dependencyIds,omitempty"`
}

// CreateTask validates in, looks up an image for the title and stores the
// task with its initial dependencies. A failed image lookup is logged and
// the task is created without an image.
func (s *Service) CreateTask(ctx context.Context, in CreateInput) (*task.Task, error) {
	title, err := apperrors.ValidateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	due, err := apperrors.ParseDueDate(in.DueDate, s.Location)
	if err != nil {
		return nil, err
	}
	if err := apperrors.ValidateTaskIDs(in.DependencyIDs); err != nil {
		return nil, err
	}

	nt := task.NewTask{Title: title, DueDate: due, DependencyIDs: in.DependencyIDs}
	if url := s.findImage(ctx, title); url != "" {
		nt.ImageURL = &url
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if len(in.DependencyIDs) > 0 {
		ids, err := s.taskIDs(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAll(ids, in.DependencyIDs); err != nil {
			return nil, err
		}
	}

	t, err := s.Store.CreateTask(ctx, nt)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "Error creating todo")
	}
	s.Logger.Info("created task", "task", t.ID, "deps", len(in.DependencyIDs), "image", t.ImageURL != nil)
	return t, nil
}

func (s *Service) findImage(ctx context.Context, title string) string {
	if s.Images == nil {
		return ""
	}
	url, err := s.Images.SearchImage(ctx, title)
	if err != nil {
		s.Logger.Warn("image lookup failed", "title", title, "err", err)
		return ""
	}
	if url == "" {
		return ""
	}
	if err := apperrors.ValidateURL(url); err != nil {
		s.Logger.Warn("ignoring image url", "url", url, "err", err)
		return ""
	}
	return url
}

// GetTask returns one task with its dependencies resolved.
func (s *Service) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	if err := apperrors.ValidateTaskID(id); err != nil {
		return nil, err
	}
	t, err := s.Store.GetTask(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Error fetching todo")
	}
	return t, nil
}

// ListTasks returns every task, newest first.
func (s *Service) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.Store.ListTasks(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "Error fetching todos")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// DeleteTask removes a task and every edge that touches it.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if err := apperrors.ValidateTaskID(id); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.Store.DeleteTask(ctx, id); err != nil {
		return notFoundOr(err, "Error deleting todo")
	}
	s.Logger.Info("deleted task", "task", id)
	return nil
}

// SetDependencies replaces the dependency set of id with depIDs and returns
// the updated task. An empty depIDs clears every dependency.
//
// The change is rejected with CYCLE_DETECTED, and storage is left untouched,
// when it would make the graph cyclic.
func (s *Service) SetDependencies(ctx context.Context, id int64, depIDs []int64) (*task.Task, error) {
	if err := apperrors.ValidateTaskID(id); err != nil {
		return nil, err
	}
	if err := apperrors.ValidateTaskIDs(depIDs); err != nil {
		return nil, err
	}
	if err := s.replaceDependencies(ctx, id, depIDs); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// replaceDependencies runs the existence and cycle checks and the write
// under writeMu.
func (s *Service) replaceDependencies(ctx context.Context, id int64, depIDs []int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ids, err := s.taskIDs(ctx)
	if err != nil {
		return err
	}
	if _, ok := slices.BinarySearch(ids, id); !ok {
		return apperrors.New(apperrors.ErrCodeTaskNotFound, "Todo not found")
	}
	if err := requireAll(ids, depIDs); err != nil {
		return err
	}

	edges, err := s.Store.Edges(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "Error loading dependencies")
	}
	g := dag.FromSnapshot(ids, edges)
	if dag.WouldCreateCycle(g, id, depIDs) {
		observability.Tasks().OnCycleRejected(ctx, id, depIDs)
		s.Logger.Debug("rejected dependency update", "task", id, "deps", depIDs)
		return apperrors.New(apperrors.ErrCodeCycleDetected, "Circular dependency detected")
	}

	if err := s.Store.ReplaceDependencies(ctx, id, depIDs); err != nil {
		return notFoundOr(err, "Error updating dependencies")
	}
	observability.Tasks().OnDependenciesReplaced(ctx, id, len(depIDs))
	s.Logger.Info("updated dependencies", "task", id, "deps", len(depIDs))
	return nil
}

// taskIDs returns every stored task ID in ascending order.
func (s *Service) taskIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.Store.TaskIDs(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "Error loading todos")
	}
	slices.Sort(ids)
	return ids, nil
}

// requireAll returns NOT_FOUND for the first id in want missing from the
// sorted ids.
func requireAll(ids, want []int64) error {
	for _, id := range want {
		if _, ok := slices.BinarySearch(ids, id); !ok {
			return apperrors.New(apperrors.ErrCodeNotFound, "Dependency todo %d not found", id)
		}
	}
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.ErrCodeTaskNotFound, err, "Todo not found")
	}
	return apperrors.Wrap(apperrors.ErrCodeStorage, err, "%s", msg)
}
