package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/storage"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Prev, "left":
		m.setFocus(calendar.Shift(m.Focus, m.Mode, -1))
		m.Status = StatusBar{Text: fmt.Sprintf("focus: %s", m.Focus)}
	case m.Keys.Next, "right":
		m.setFocus(calendar.Shift(m.Focus, m.Mode, 1))
		m.Status = StatusBar{Text: fmt.Sprintf("focus: %s", m.Focus)}
	case "[":
		m.setFocus(m.Focus.AddDays(-1))
	case "]":
		m.setFocus(m.Focus.AddDays(1))
	case m.Keys.Today:
		m.setFocus(m.today())
		m.Status = StatusBar{Text: "focus: today"}
	case m.Keys.Day:
		m.setMode(calendar.ViewDay)
	case m.Keys.Week:
		m.setMode(calendar.ViewWeek)
	case m.Keys.Month:
		m.setMode(calendar.ViewMonth)
	case m.Keys.Up, "up":
		m.moveCursor(-1)
	case m.Keys.Down, "down":
		m.moveCursor(1)
	case m.Keys.Toggle, "space":
		m.toggleSelected()
	case m.Keys.Delete:
		m.askDelete()
	case "a":
		m.openPalette("add ")
	case "e":
		m.openPalette("edit ")
	case "r":
		m.openPalette("repeat ")
	case m.Keys.Plan:
		m.openPlanner()
	case m.Keys.Theme:
		if m.Theme == storage.ThemeLight {
			m.setTheme(storage.ThemeDark)
		} else {
			m.setTheme(storage.ThemeLight)
		}
	}
	return m, nil
}

func (m *Model) toggleSelected() {
	if m.SelectedTaskID == "" {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	t, err := m.deps.Tasks.ToggleComplete(m.SelectedTaskID)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.syncSelection()
		return
	}
	state := "reopened"
	if t.IsCompleted {
		state = "completed"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, t.Title)}
}

func (m *Model) askDelete() {
	t, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	m.Confirm = ConfirmState{Active: true, TaskID: t.ID, Title: t.Title}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		id, title := m.Confirm.TaskID, m.Confirm.Title
		m.Confirm = ConfirmState{}
		if err := m.deps.Tasks.Delete(id); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.SelectedTaskID = ""
		m.syncSelection()
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", title)}
	case "n", "N", "esc":
		m.Confirm = ConfirmState{}
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}
