package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daystream/internal/commands"
	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/tasks"
)

func (m Model) plannerReady() error {
	if m.Planner.Pending {
		return tasks.ErrPlannerBusy
	}
	if m.deps.Planner == nil {
		return &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "planner is not configured; set DAYSTREAM_PLANNER_API_KEY"}
	}
	return nil
}

func (m *Model) openPlanner() {
	if err := m.plannerReady(); err != nil {
		m.Status = StatusBar{Text: describeError(err), IsError: true}
		return
	}
	m.Planner = PlannerState{Active: true, Date: m.Focus}
	m.plannerInput.SetValue("")
	m.plannerInput.Focus()
	m.Status = StatusBar{Text: "describe your day"}
}

func (m Model) handlePlannerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Planner = PlannerState{}
		m.plannerInput.Blur()
		m.Status = StatusBar{Text: "planner closed"}
		return m, nil
	case "enter":
		text := m.plannerInput.Value()
		if len(text) == 0 {
			m.Status = StatusBar{Text: "describe your day first", IsError: true}
			return m, nil
		}
		return m, m.startPlan(text, m.Planner.Date)
	}
	switch msg.Type {
	case tea.KeyRunes:
		m.plannerInput.SetValue(m.plannerInput.Value() + string(msg.Runes))
	case tea.KeySpace:
		m.plannerInput.SetValue(m.plannerInput.Value() + " ")
	default:
		var cmd tea.Cmd
		m.plannerInput, cmd = m.plannerInput.Update(msg)
		m.Planner.Input = m.plannerInput.Value()
		return m, cmd
	}
	m.Planner.Input = m.plannerInput.Value()
	return m, nil
}

// startPlan marks the request outstanding and returns the command that runs
// it off the update loop.
func (m *Model) startPlan(text string, date model.Date) tea.Cmd {
	m.Planner = PlannerState{Pending: true, Input: text, Date: date}
	m.plannerInput.Blur()
	m.Status = StatusBar{Text: "planning " + date.String()}

	ctrl, p, timeout := m.deps.Tasks, m.deps.Planner, m.deps.PlanTimeout
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		created, err := ctrl.Plan(ctx, p, text, date)
		return PlanResultMsg{Date: date, Tasks: created, Err: err}
	}
	return tea.Batch(m.planSpinner.Tick, run)
}

func (m Model) onPlanResult(msg PlanResultMsg) Model {
	m.Planner = PlannerState{}
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: describeError(msg.Err), IsError: true}
		if errors.Is(msg.Err, tasks.ErrPlannerBusy) {
			m.Planner.Pending = m.deps.Tasks.Planning()
		}
		return m
	}
	m.setFocus(msg.Date)
	if len(msg.Tasks) > 0 {
		m.SelectedTaskID = msg.Tasks[0].ID
		m.syncSelection()
	}
	m.Status = StatusBar{Text: fmt.Sprintf("imported %d planned tasks for %s", len(msg.Tasks), msg.Date)}
	return m
}
