package task

import (
	"encoding/json"
	"time"
)

// TimeFormat is the single textual date format used at the JSON and YAML
// boundaries: RFC 3339, UTC, millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Duration is the fixed duration of every task, in days.
const Duration = 1

// Task is a unit of work with an optional due date and image.
//
// Dependencies holds the resolved direct dependencies. Each entry carries
// its own fields but not its own Dependencies.
type Task struct {
	ID           int64
	Title        string
	DueDate      *time.Time
	ImageURL     *string
	CreatedAt    time.Time
	Dependencies []Task
}

// DependencyIDs returns the ids of t's direct dependencies in stored order.
func (t Task) DependencyIDs() []int64 {
	ids := make([]int64, len(t.Dependencies))
	for i, d := range t.Dependencies {
		ids[i] = d.ID
	}
	return ids
}

// NewTask carries the fields needed to create a task. ID and CreatedAt are
// assigned by storage.
type NewTask struct {
	Title         string
	DueDate       *time.Time
	ImageURL      *string
	DependencyIDs []int64
}

// Edge is a dependency edge: TaskID depends on DependsOnID.
type Edge struct {
	TaskID      int64 `json:"taskId" yaml:"taskId"`
	DependsOnID int64 `json:"dependsOnId" yaml:"dependsOnId"`
}

// FormatTime renders t in TimeFormat, or nil when t is nil.
func FormatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(TimeFormat)
	return &s
}

type wireTask struct {
	ID           int64      `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	DueDate      *string    `json:"dueDate" yaml:"dueDate"`
	ImageURL     *string    `json:"imageUrl" yaml:"imageUrl"`
	CreatedAt    string     `json:"createdAt" yaml:"createdAt"`
	Dependencies []wireTask `json:"dependencies" yaml:"dependencies"`
}

func (t Task) wire() wireTask {
	w := wireTask{
		ID:           t.ID,
		Title:        t.Title,
		DueDate:      FormatTime(t.DueDate),
		ImageURL:     t.ImageURL,
		CreatedAt:    t.CreatedAt.UTC().Format(TimeFormat),
		Dependencies: make([]wireTask, len(t.Dependencies)),
	}
	for i, d := range t.Dependencies {
		d.Dependencies = nil
		w.Dependencies[i] = d.wire()
	}
	return w
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

// MarshalYAML implements yaml.Marshaler.
func (t Task) MarshalYAML() (any, error) {
	return t.wire(), nil
}
