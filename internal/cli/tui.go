package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TaskPickerModel - Interactive dependency selection
// =============================================================================

// TaskPickerModel is the bubbletea model for choosing the dependencies of a
// task. The task itself is never offered as a candidate.
type TaskPickerModel struct {
	Target    task.Task
	Tasks     []task.Task
	Chosen    map[int64]bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewTaskPickerModel creates a picker for target's dependencies, with its
// current dependencies preselected.
func NewTaskPickerModel(target task.Task, all []task.Task) TaskPickerModel {
	candidates := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.ID != target.ID {
			candidates = append(candidates, t)
		}
	}
	slices.SortFunc(candidates, func(a, b task.Task) int { return cmp.Compare(a.ID, b.ID) })

	chosen := make(map[int64]bool)
	for _, id := range target.DependencyIDs() {
		chosen[id] = true
	}
	return TaskPickerModel{
		Target: target,
		Tasks:  candidates,
		Chosen: chosen,
		Height: 15,
	}
}

// Selection returns the chosen dependency ids in ascending order.
func (m TaskPickerModel) Selection() []int64 {
	ids := make([]int64, 0, len(m.Chosen))
	for _, t := range m.Tasks {
		if m.Chosen[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (m TaskPickerModel) Init() tea.Cmd {
	return nil
}

func (m TaskPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tasks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Tasks) > 0 {
				id := m.Tasks[m.Cursor].ID
				if m.Chosen[id] {
					delete(m.Chosen, id)
				} else {
					m.Chosen[id] = true
				}
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m TaskPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Dependencies of #%d %s", m.Target.ID, m.Target.Title)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ save  q quit"))
	b.WriteString("\n\n")

	if len(m.Tasks) == 0 {
		b.WriteString(listDimStyle.Render("  no other tasks"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Tasks))
	for i := m.Offset; i < end; i++ {
		t := m.Tasks[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[t.ID] {
			box = "[" + iconSuccess + "]"
		}

		line := fmt.Sprintf("%s%s %4d  %s", cursor, box, t.ID, t.Title)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Chosen[t.ID]:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Tasks), len(m.Chosen))))
	return b.String()
}

// pickDependencies runs the picker and returns the chosen ids. ok is false
// when the user quits without confirming.
func pickDependencies(target task.Task, all []task.Task, opts ...tea.ProgramOption) (ids []int64, ok bool, err error) {
	final, err := tea.NewProgram(NewTaskPickerModel(target, all), opts...).Run()
	if err != nil {
		return nil, false, err
	}
	m := final.(TaskPickerModel)
	if !m.Confirmed {
		return nil, false, nil
	}
	return m.Selection(), true, nil
}
