package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskItemData struct {
	ID        string
	Title     string
	Start     string
	End       string
	Duration  int
	Category  string
	Completed bool
	Selected  bool
	InSeries  bool
}

type DayPanelData struct {
	Theme   string
	Label   string
	IsToday bool
	Items   []TaskItemData
}

type DayCellData struct {
	Day      int
	Weekday  string
	IsToday  bool
	IsFocus  bool
	Total    int
	Done     int
	Previews []string
}

type WeekPanelData struct {
	Theme string
	Label string
	Days  [7]DayCellData
}

type MonthPanelData struct {
	Theme   string
	Label   string
	Leading int
	Days    []DayCellData
}

type DetailData struct {
	Task        *TaskItemData
	Date        string
	Description string
	SeriesSize  int
}

type HelpPanelData struct {
	Bindings []string
	Commands []string
	HelpView string
}

type PlannerPromptData struct {
	Active  bool
	Pending bool
	Date    string
	Input   string
	Spinner string
}

var categoryColors = map[string]lipgloss.Color{
	"Work":     "12",
	"Personal": "13",
	"Health":   "10",
	"Learning": "11",
	"Other":    "8",
}

func categoryBadge(category string) string {
	c, ok := categoryColors[category]
	if !ok {
		c = categoryColors["Other"]
	}
	return lipgloss.NewStyle().Foreground(c).Render(strings.ToLower(category))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func RenderDayPanel(data DayPanelData) string {
	p := paletteFor(data.Theme)
	var b strings.Builder
	label := data.Label
	if data.IsToday {
		label += " (today)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(label) + "\n")
	if len(data.Items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(p.muted).Render("(no tasks scheduled)"))
		return b.String()
	}
	done := lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true)
	for _, item := range data.Items {
		cursor := " "
		if item.Selected {
			cursor = ">"
		}
		title := item.Title
		if item.Completed {
			title = done.Render(title)
		}
		series := ""
		if item.InSeries {
			series = " ~"
		}
		b.WriteString(fmt.Sprintf("%s %s-%s %s %s%s  %s %dm\n",
			cursor, item.Start, item.End, checkbox(item.Completed), title, series, categoryBadge(item.Category), item.Duration))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderWeekPanel(data WeekPanelData) string {
	p := paletteFor(data.Theme)
	today := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	muted := lipgloss.NewStyle().Foreground(p.muted)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(data.Label) + "\n")
	for _, day := range data.Days {
		cursor := " "
		if day.IsFocus {
			cursor = ">"
		}
		head := fmt.Sprintf("%s %02d", day.Weekday, day.Day)
		if day.IsToday {
			head = today.Render(head)
		}
		line := fmt.Sprintf("%s %s ", cursor, head)
		if day.Total == 0 {
			line += muted.Render("-")
		} else {
			line += fmt.Sprintf("%d/%d  %s", day.Done, day.Total, strings.Join(day.Previews, ", "))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderMonthPanel(data MonthPanelData) string {
	p := paletteFor(data.Theme)
	today := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	focus := lipgloss.NewStyle().Reverse(true)
	muted := lipgloss.NewStyle().Foreground(p.muted)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(data.Label) + "\n")
	b.WriteString(muted.Render(" Mo  Tu  We  Th  Fr  Sa  Su") + "\n")
	col := 0
	for i := 0; i < data.Leading; i++ {
		b.WriteString("    ")
		col++
	}
	for _, day := range data.Days {
		num := fmt.Sprintf("%3d", day.Day)
		switch {
		case day.IsFocus:
			num = focus.Render(num)
		case day.IsToday:
			num = today.Render(num)
		}
		marker := " "
		if day.Total > 0 {
			marker = "*"
			if day.Done == day.Total {
				marker = "+"
			}
		}
		b.WriteString(num + marker)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	b.WriteString("\n" + muted.Render("* tasks  + all done"))
	return b.String()
}

func RenderTaskDetail(data DetailData) string {
	var b strings.Builder
	b.WriteString("selected:\n")
	if data.Task == nil {
		b.WriteString(fmt.Sprintf("(nothing on %s)", data.Date))
		return b.String()
	}
	t := data.Task
	b.WriteString(fmt.Sprintf("%s\n", t.Title))
	b.WriteString(fmt.Sprintf("when: %s %s-%s (%dm)\n", data.Date, t.Start, t.End, t.Duration))
	b.WriteString(fmt.Sprintf("category: %s\n", categoryBadge(t.Category)))
	b.WriteString(fmt.Sprintf("done: %t\n", t.Completed))
	if data.SeriesSize > 0 {
		b.WriteString(fmt.Sprintf("series: %d instances\n", data.SeriesSize))
	}
	if data.Description != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderProgress(done, total, percent int, bar string) string {
	return fmt.Sprintf("%d/%d tasks %s %d%%", done, total, bar, percent)
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\nkeys:\n")
	b.WriteString(strings.Join(data.Bindings, "\n"))
	b.WriteString("\ncommands:\n")
	b.WriteString(strings.Join(data.Commands, "\n"))
	if data.HelpView != "" {
		b.WriteString("\n" + data.HelpView)
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string, preview []string) string {
	if !active {
		return ""
	}
	out := fmt.Sprintf("command: /%s", input)
	if len(preview) > 0 {
		out += "\npreview: " + strings.Join(preview, " ")
	}
	return out
}

func RenderPlannerPrompt(data PlannerPromptData) string {
	if data.Pending {
		return fmt.Sprintf("planner: %s generating a plan for %s...", data.Spinner, data.Date)
	}
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("plan %s\ndescribe your day, [enter] generate [esc] cancel\n> %s", data.Date, data.Input)
}

func RenderConfirm(title string) string {
	return fmt.Sprintf("delete %q? [y] yes [n] no", title)
}
