package update

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daystream/internal/commands"
	"github.com/sandeepkv93/daystream/internal/export"
	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/storage"
	"github.com/sandeepkv93/daystream/internal/tasks"
)

func (m *Model) openPalette(prefill string) {
	m.Palette.Active = true
	m.commandInput.SetValue(prefill)
	m.commandInput.Focus()
	m.Palette.Input = m.commandInput.Value()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		case tea.KeySpace:
			m.commandInput.SetValue(m.commandInput.Value() + " ")
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func noSelection() error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	m.Status = StatusBar{}
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := m.deps.Tasks.CreateSingle(slotDraft(a.Slot, m.Focus))
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedTaskID = t.ID
			return commands.Result{Message: fmt.Sprintf("added %s %s", t.StartTime, t.Title)}, nil
		},
		Repeat: func(r commands.RepeatArgs) (commands.Result, error) {
			created, err := m.deps.Tasks.CreateRecurring(slotDraft(r.Slot, model.Date{}), m.Focus, r.End, r.Rule)
			if err != nil {
				return commands.Result{}, err
			}
			if len(created) == 0 {
				return commands.Result{Message: fmt.Sprintf("%s selects no dates from %s to %s; nothing created", r.Rule, m.Focus, r.End)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("created %d %s instances of %s", len(created), r.Rule, r.Title)}, nil
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			if m.SelectedTaskID == "" {
				return commands.Result{}, noSelection()
			}
			t, err := m.deps.Tasks.Update(m.SelectedTaskID, e.Patch)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("updated: %s", t.Title)}, nil
		},
		Done: func() (commands.Result, error) {
			if m.SelectedTaskID == "" {
				return commands.Result{}, noSelection()
			}
			m.toggleSelected()
			if m.Status.IsError {
				return commands.Result{}, errors.New(m.Status.Text)
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Delete: func() (commands.Result, error) {
			m.askDelete()
			if !m.Confirm.Active {
				return commands.Result{}, noSelection()
			}
			return commands.Result{Message: "confirm delete"}, nil
		},
		Goto: func(g commands.GotoArgs) (commands.Result, error) {
			d := g.Date
			if g.Today {
				d = m.today()
			}
			m.setFocus(d)
			return commands.Result{Message: fmt.Sprintf("focus: %s", d)}, nil
		},
		View: func(v commands.ViewArgs) (commands.Result, error) {
			m.setMode(v.Mode)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Plan: func(p commands.PlanArgs) (commands.Result, error) {
			if err := m.plannerReady(); err != nil {
				return commands.Result{}, err
			}
			follow = m.startPlan(p.Input, m.Focus)
			return commands.Result{Message: "planner request sent"}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			m.setTheme(storage.Theme(t.Name))
			return commands.Result{Message: m.Status.Text}, nil
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			n, err := m.exportTo(e.Path)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %d tasks to %s", n, e.Path)}, nil
		},
	})
	m.syncSelection()
	if err != nil {
		m.Status = StatusBar{Text: describeError(err), IsError: true}
		m.LastError = err
		return m, nil
	}
	// A preference save failure reported during the command wins.
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, follow
}

func slotDraft(s commands.Slot, d model.Date) model.Draft {
	return model.Draft{
		Title:           s.Title,
		Date:            d,
		StartTime:       s.Start,
		DurationMinutes: s.DurationMinutes,
		Category:        s.Category,
	}
}

// exportTo writes the whole collection as iCalendar via a temp file.
func (m Model) exportTo(path string) (int, error) {
	all := m.deps.Tasks.Tasks()
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	if err := export.WriteICS(f, all, m.deps.Now()); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, err
	}
	return len(all), nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return "task no longer exists"
	case errors.Is(err, tasks.ErrPlannerBusy):
		return "a planner request is already in progress"
	case errors.Is(err, tasks.ErrPlannerFailure):
		return "planner failed: " + err.Error()
	default:
		return err.Error()
	}
}
