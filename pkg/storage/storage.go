// Package storage defines the persistence boundary for tasks and their
// dependency edges.
//
// Two implementations exist: [github.com/matzehuels/taskgraph/pkg/storage/sqlite]
// (the default, a single-file relational store) and
// [github.com/matzehuels/taskgraph/pkg/storage/mongo] (a document store).
// Both satisfy the conformance suite in storagetest.
//
// Stores do not validate input beyond what their schema enforces and do
// not check for cycles. Callers validate ids and run the cycle check
// before calling [Store.ReplaceDependencies].
package storage

import (
	"context"
	"errors"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// ErrNotFound is returned (possibly wrapped) when the addressed task does
// not exist.
var ErrNotFound = errors.New("task not found")

// Store persists tasks and dependency edges.
type Store interface {
	// GetTask returns one task with its direct dependencies resolved.
	GetTask(ctx context.Context, id int64) (*task.Task, error)

	// ListTasks returns all tasks, newest first, with dependencies resolved.
	// Tasks created in the same instant are ordered by descending ID.
	ListTasks(ctx context.Context) ([]task.Task, error)

	// TaskIDs returns the ID of every task in ascending order.
	TaskIDs(ctx context.Context) ([]int64, error)

	// Edges returns the full dependency edge set.
	Edges(ctx context.Context) ([]task.Edge, error)

	// CreateTask inserts a task and its initial dependency edges
	// atomically and returns the stored task.
	CreateTask(ctx context.Context, t task.NewTask) (*task.Task, error)

	// ReplaceDependencies atomically replaces every outgoing edge of id with
	// edges to depIDs. Duplicates in depIDs are collapsed.
	ReplaceDependencies(ctx context.Context, id int64, depIDs []int64) error

	// DeleteTask removes every edge touching id and then the task itself.
	DeleteTask(ctx context.Context, id int64) error

	// Close releases the underlying connection.
	Close() error
}
