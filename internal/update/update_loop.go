package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daystream/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Confirm.Active {
			return m.handleConfirmKey(typed), nil
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Planner.Active {
			return m.handlePlannerKey(typed)
		}

		switch keyStr {
		case m.Keys.Palette:
			m.openPalette("")
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleCalendarKey(typed)
	case spinner.TickMsg:
		if m.Planner.Pending {
			var cmd tea.Cmd
			m.planSpinner, cmd = m.planSpinner.Update(typed)
			return m, cmd
		}
	case PlanResultMsg:
		return m.onPlanResult(typed), nil
	case SwitchViewMsg:
		if typed.Mode.IsValid() {
			m.setMode(typed.Mode)
		}
		return m, nil
	case GotoDateMsg:
		if !typed.Date.IsZero() {
			m.setFocus(typed.Date)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	all := m.deps.Tasks.Tasks()
	today := m.today()
	return views.RenderApp(views.AppData{
		Theme:         string(m.Theme),
		Header:        fmt.Sprintf("daystream | %s | %s", m.Mode, m.Focus),
		Progress:      m.renderProgress(all),
		LeftPane:      m.renderMainPane(all, today),
		RightPane:     m.renderSidePane(all, today),
		Overlay:       m.renderOverlay(),
		StatusLine:    m.Status.Text,
		StatusIsError: m.Status.IsError,
		Footer:        m.helpModel.View(helpKeyMap{short: m.helpBindings()}),
	})
}
