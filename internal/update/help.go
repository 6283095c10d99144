package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/daystream/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.globalBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", displayKey(kb.Key), kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		Commands: commandHelp(),
		HelpView: m.helpModel.View(helpKeyMap{short: m.helpBindings()}),
	})
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Prev + "/" + m.Keys.Next, Action: "previous/next period"},
		{Key: "[/]", Action: "previous/next day"},
		{Key: m.Keys.Today, Action: "jump to today"},
		{Key: m.Keys.Day + "/" + m.Keys.Week + "/" + m.Keys.Month, Action: "day/week/month view"},
		{Key: m.Keys.Down + "/" + m.Keys.Up, Action: "move selection"},
		{Key: m.Keys.Toggle, Action: "toggle complete"},
		{Key: m.Keys.Delete, Action: "delete selected"},
		{Key: "a/e/r", Action: "add/edit/repeat via palette"},
		{Key: m.Keys.Plan, Action: "plan the day with AI"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Theme, Action: "toggle theme"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func commandHelp() []string {
	return []string{
		"add HH:MM minutes category title",
		"repeat daily|weekly|mo,we,fr YYYY-MM-DD HH:MM minutes category title",
		"edit start=HH:MM minutes=N category=c date=YYYY-MM-DD title=...",
		"done | delete",
		"goto YYYY-MM-DD|today",
		"view day|week|month",
		"plan free text",
		"theme dark|light",
		"export file.ics",
	}
}

func (m Model) helpBindings() []key.Binding {
	short := []KeyBinding{
		{Key: m.Keys.Palette, Action: "command"},
		{Key: m.Keys.Plan, Action: "plan"},
		{Key: m.Keys.Help, Action: "help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
	out := make([]key.Binding, 0, len(short))
	for _, kb := range short {
		keys := strings.Split(kb.Key, "/")
		out = append(out, key.NewBinding(key.WithKeys(keys...), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
