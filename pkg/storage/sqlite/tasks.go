package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/task"
)

const taskColumns = "t.id, t.title, t.due_date, t.image_url, t.created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t        task.Task
		due, img sql.NullString
		created  string
	)
	if err := row.Scan(&t.ID, &t.Title, &due, &img, &created); err != nil {
		return task.Task{}, err
	}

	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return task.Task{}, fmt.Errorf("task %d: bad created_at: %w", t.ID, err)
	}
	if due.Valid {
		d, err := parseTime(due.String)
		if err != nil {
			return task.Task{}, fmt.Errorf("task %d: bad due_date: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	if img.Valid {
		t.ImageURL = &img.String
	}
	t.Dependencies = []task.Task{}
	return t, nil
}

// GetTask returns one task with its direct dependencies resolved.
func (s *Store) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks t WHERE t.id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.depends_on_id
		WHERE d.task_id = ?
		ORDER BY d.rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies of task %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		dep, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		t.Dependencies = append(t.Dependencies, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns all tasks newest first with dependencies resolved.
func (s *Store) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks t ORDER BY t.created_at DESC, t.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	index := make(map[int64]int)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edges, err := s.Edges(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		from, okF := index[e.TaskID]
		to, okT := index[e.DependsOnID]
		if !okF || !okT {
			continue
		}
		dep := tasks[to]
		dep.Dependencies = []task.Task{}
		tasks[from].Dependencies = append(tasks[from].Dependencies, dep)
	}
	return tasks, nil
}

// TaskIDs returns every task ID in ascending order.
func (s *Store) TaskIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM tasks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Edges returns the full dependency edge set in insertion order.
func (s *Store) Edges(ctx context.Context) ([]task.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT task_id, depends_on_id FROM task_dependencies ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	defer rows.Close()

	edges := []task.Edge{}
	for rows.Next() {
		var e task.Edge
		if err := rows.Scan(&e.TaskID, &e.DependsOnID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CreateTask inserts the task and its initial dependencies in one
// transaction.
func (s *Store) CreateTask(ctx context.Context, nt task.NewTask) (*task.Task, error) {
	var due, img sql.NullString
	if nt.DueDate != nil {
		due = sql.NullString{String: formatTime(*nt.DueDate), Valid: true}
	}
	if nt.ImageURL != nil {
		img = sql.NullString{String: *nt.ImageURL, Valid: true}
	}
	created := formatTime(s.now())

	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tasks (title, due_date, image_url, created_at) VALUES (?, ?, ?, ?)",
			nt.Title, due, img, created)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertDependencies(ctx, tx, id, nt.DependencyIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// ReplaceDependencies deletes every outgoing edge of id and inserts the new
// set in one transaction.
func (s *Store) ReplaceDependencies(ctx context.Context, id int64, depIDs []int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := requireTask(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM task_dependencies WHERE task_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear dependencies of task %d: %w", id, err)
		}
		return insertDependencies(ctx, tx, id, depIDs)
	})
}

// DeleteTask removes the task's outgoing and incoming edges and then the
// task in one transaction.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := requireTask(ctx, tx, id); err != nil {
			return err
		}
		stmts := []string{
			"DELETE FROM task_dependencies WHERE task_id = ?",
			"DELETE FROM task_dependencies WHERE depends_on_id = ?",
			"DELETE FROM tasks WHERE id = ?",
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to delete task %d: %w", id, err)
			}
		}
		return nil
	})
}

func requireTask(ctx context.Context, tx *sql.Tx, id int64) error {
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to look up task %d: %w", id, err)
	}
	return nil
}

func insertDependencies(ctx context.Context, tx *sql.Tx, id int64, depIDs []int64) error {
	if len(depIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	seen := make(map[int64]bool, len(depIDs))
	for _, dep := range depIDs {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		if _, err := stmt.ExecContext(ctx, id, dep); err != nil {
			return fmt.Errorf("failed to add dependency %d -> %d: %w", id, dep, err)
		}
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
