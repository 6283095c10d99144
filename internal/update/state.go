package update

import (
	"fmt"

	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/storage"
)

// persistPreferences writes the view mode and theme. Failures are reported on
// the status bar and never block the change itself.
func (m *Model) persistPreferences() {
	if m.deps.Store == nil {
		return
	}
	ctx, cancel := m.ctx()
	defer cancel()
	if err := storage.SavePreferences(ctx, m.deps.Store, m.preferences()); err != nil {
		m.deps.Logger.WithError(err).Warn("failed to save preferences")
		m.Status = StatusBar{Text: fmt.Sprintf("preferences not saved: %v", err), IsError: true}
	}
}

func (m *Model) setMode(mode calendar.ViewMode) {
	m.Mode = mode
	m.Status = StatusBar{Text: fmt.Sprintf("view: %s", mode)}
	m.persistPreferences()
}

func (m *Model) setTheme(theme storage.Theme) {
	m.Theme = theme
	m.Status = StatusBar{Text: fmt.Sprintf("theme: %s", theme)}
	m.persistPreferences()
}

func (m *Model) setFocus(d model.Date) {
	if d != m.Focus {
		m.SelectedTaskID = ""
		m.Cursor = 0
	}
	m.Focus = d
	m.syncSelection()
}

// dayTasks lists the focus date's tasks in timeline order.
func (m Model) dayTasks() []model.Task {
	return calendar.DayView(m.deps.Tasks.Tasks(), m.Focus, m.today()).Tasks
}

// syncSelection keeps the selected id when it is still on the focus date
// and otherwise clamps the cursor.
func (m *Model) syncSelection() {
	items := m.dayTasks()
	if len(items) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = ""
		return
	}
	if m.SelectedTaskID != "" {
		for i, t := range items {
			if t.ID == m.SelectedTaskID {
				m.Cursor = i
				return
			}
		}
	}
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = items[m.Cursor].ID
}

func (m *Model) moveCursor(delta int) {
	items := m.dayTasks()
	if len(items) == 0 {
		return
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	m.SelectedTaskID = items[m.Cursor].ID
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.SelectedTaskID == "" {
		return model.Task{}, false
	}
	t, err := m.deps.Tasks.Get(m.SelectedTaskID)
	if err != nil {
		return model.Task{}, false
	}
	return t, true
}
