package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/taskgraph/pkg/schedule"
	"github.com/matzehuels/taskgraph/pkg/task"
)

const (
	noValue   = "—"
	headerRow = -1
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// renderTaskTable renders tasks one per row with their dependency ids.
func renderTaskTable(tasks []task.Task, loc *time.Location) string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		image := noValue
		if t.ImageURL != nil {
			image = "yes"
		}
		rows[i] = []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			formatDate(t.DueDate, loc),
			formatIDs(t.DependencyIDs()),
			image,
		}
	}

	return newTable("ID", "Title", "Due", "Depends on", "Image").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 0 || col == 3 || col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// renderAnalysisTable renders scheduling records with critical tasks highlighted.
func renderAnalysisTable(records []task.Analysis, loc *time.Location) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		mark := ""
		if r.CriticalPath {
			mark = iconCritical
		}
		rows[i] = []string{
			mark,
			strconv.FormatInt(r.ID, 10),
			r.Title,
			formatDate(r.EarliestStartDate, loc),
			formatDate(r.FinishDate(), loc),
			formatIDs(r.Dependencies),
			formatIDs(r.Dependents),
		}
	}

	return newTable("", "ID", "Title", "Start", "Finish", "Depends on", "Blocks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < len(records) && records[row].CriticalPath {
				return StyleCritical
			}
			if col >= 5 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// renderWavesTable renders groups of tasks that can start together.
func renderWavesTable(waves []schedule.Wave, titles map[int64]string, loc *time.Location) string {
	rows := make([][]string, len(waves))
	for i, w := range waves {
		names := make([]string, len(w.TaskIDs))
		for j, id := range w.TaskIDs {
			names[j] = fmt.Sprintf("#%d %s", id, titles[id])
		}
		rows[i] = []string{
			strconv.Itoa(w.Index + 1),
			w.Start.In(loc).Format(time.DateOnly),
			strings.Join(names, ", "),
		}
	}

	return newTable("Wave", "Start", "Tasks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < len(waves) && waves[row].Critical && col == 0 {
				return StyleCritical
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return noValue
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(time.DateOnly)
}

func formatIDs(ids []int64) string {
	if len(ids) == 0 {
		return noValue
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
