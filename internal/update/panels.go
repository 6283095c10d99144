package update

import (
	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/views"
)

func (m Model) renderMainPane(all []model.Task, today model.Date) string {
	theme := string(m.Theme)
	switch m.Mode {
	case calendar.ViewWeek:
		data := views.WeekPanelData{Theme: theme, Label: calendar.HeaderLabel(m.Focus, m.Mode)}
		for i, c := range calendar.WeekView(all, m.Focus, today) {
			data.Days[i] = m.dayCell(c)
		}
		return views.RenderWeekPanel(data)
	case calendar.ViewMonth:
		mv := calendar.MonthOf(all, m.Focus, today)
		data := views.MonthPanelData{Theme: theme, Label: calendar.HeaderLabel(m.Focus, m.Mode), Leading: mv.Leading}
		for _, c := range mv.Cells {
			data.Days = append(data.Days, m.dayCell(c))
		}
		return views.RenderMonthPanel(data)
	default:
		c := calendar.DayView(all, m.Focus, today)
		items := make([]views.TaskItemData, 0, len(c.Tasks))
		for _, t := range c.Tasks {
			items = append(items, taskItem(t, t.ID == m.SelectedTaskID))
		}
		return views.RenderDayPanel(views.DayPanelData{
			Theme:   theme,
			Label:   calendar.HeaderLabel(m.Focus, m.Mode),
			IsToday: c.IsToday,
			Items:   items,
		})
	}
}

func (m Model) dayCell(c calendar.Cell) views.DayCellData {
	p := calendar.Progress(c.Tasks)
	return views.DayCellData{
		Day:      c.Date.Day,
		Weekday:  c.Date.Weekday().String()[:3],
		IsToday:  c.IsToday,
		IsFocus:  c.Date == m.Focus,
		Total:    p.Total,
		Done:     p.Completed,
		Previews: previews(c.Tasks, 2),
	}
}

// renderSidePane shows the focus day's list outside day view, then the
// selected task.
func (m Model) renderSidePane(all []model.Task, today model.Date) string {
	out := ""
	if m.Mode != calendar.ViewDay {
		c := calendar.DayView(all, m.Focus, today)
		items := make([]views.TaskItemData, 0, len(c.Tasks))
		for _, t := range c.Tasks {
			items = append(items, taskItem(t, t.ID == m.SelectedTaskID))
		}
		out = views.RenderDayPanel(views.DayPanelData{
			Theme:   string(m.Theme),
			Label:   calendar.HeaderLabel(m.Focus, calendar.ViewDay),
			IsToday: c.IsToday,
			Items:   items,
		}) + "\n\n"
	}
	detail := views.DetailData{Date: m.Focus.String()}
	if t, ok := m.selectedTask(); ok {
		item := taskItem(t, true)
		detail.Task = &item
		detail.Date = t.Date.String()
		detail.Description = views.RenderMarkdown(t.Description, string(m.Theme))
		if t.SeriesID != "" {
			detail.SeriesSize = len(m.deps.Tasks.SeriesMembers(t.SeriesID))
		}
	}
	return out + views.RenderTaskDetail(detail) + m.renderHelpIfVisible()
}

func (m Model) renderProgress(all []model.Task) string {
	p := calendar.Progress(calendar.TasksOn(all, m.Focus))
	ratio := 0.0
	if p.Total > 0 {
		ratio = float64(p.Completed) / float64(p.Total)
	}
	return views.RenderProgress(p.Completed, p.Total, p.Percent, progressBar(ratio, 10))
}

func (m Model) renderOverlay() string {
	switch {
	case m.Confirm.Active:
		return views.RenderConfirm(m.Confirm.Title)
	case m.Palette.Active:
		return views.RenderCommandPalette(true, m.Palette.Input, m.repeatPreview())
	case m.Planner.Active || m.Planner.Pending:
		return views.RenderPlannerPrompt(views.PlannerPromptData{
			Active:  m.Planner.Active,
			Pending: m.Planner.Pending,
			Date:    calendar.HeaderLabel(m.Planner.Date, calendar.ViewDay),
			Input:   m.plannerInput.View(),
			Spinner: m.planSpinner.View(),
		})
	default:
		return ""
	}
}
