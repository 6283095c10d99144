// Package calendar buckets tasks into the day, week, and month views.
// Every function is pure; callers pass the current date on each render.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/daystream/internal/model"
)

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

func (v ViewMode) IsValid() bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		return true
	default:
		return false
	}
}

func ParseViewMode(s string) (ViewMode, error) {
	v := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("calendar: unknown view mode %q", s)
	}
	return v, nil
}

// Cell is one rendered day.
type Cell struct {
	Date    model.Date
	IsToday bool
	Tasks   []model.Task
}

type MonthGrid struct {
	// Leading is the number of blank cells before the 1st in a Monday-first grid.
	Leading int
	Days    []model.Date
}

// TasksOn returns tasks dated d in store order.
func TasksOn(tasks []model.Task, d model.Date) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Date == d {
			out = append(out, t)
		}
	}
	return out
}

// SortByStart orders tasks by minutes since midnight, keeping insertion order
// for equal start times.
func SortByStart(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartTime.Minutes() < tasks[j].StartTime.Minutes()
	})
}

// mondayOffset maps Sunday=0..Saturday=6 onto the distance back to Monday.
func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func WeekStart(d model.Date) model.Date {
	return d.AddDays(-mondayOffset(d.Weekday()))
}

func Week(d model.Date) [7]model.Date {
	var out [7]model.Date
	start := WeekStart(d)
	for i := range out {
		out[i] = start.AddDays(i)
	}
	return out
}

func Month(d model.Date) MonthGrid {
	first := model.NewDate(d.Year, d.Month, 1)
	n := model.DaysIn(d.Year, d.Month)
	days := make([]model.Date, n)
	for i := range days {
		days[i] = first.AddDays(i)
	}
	return MonthGrid{Leading: mondayOffset(first.Weekday()), Days: days}
}

func cell(tasks []model.Task, d, today model.Date) Cell {
	dayTasks := TasksOn(tasks, d)
	SortByStart(dayTasks)
	return Cell{Date: d, IsToday: d == today, Tasks: dayTasks}
}

func DayView(tasks []model.Task, d, today model.Date) Cell {
	return cell(tasks, d, today)
}

func WeekView(tasks []model.Task, d, today model.Date) [7]Cell {
	var out [7]Cell
	for i, day := range Week(d) {
		out[i] = cell(tasks, day, today)
	}
	return out
}

type MonthView struct {
	Leading int
	Cells   []Cell
}

func MonthOf(tasks []model.Task, d, today model.Date) MonthView {
	grid := Month(d)
	cells := make([]Cell, 0, len(grid.Days))
	for _, day := range grid.Days {
		cells = append(cells, cell(tasks, day, today))
	}
	return MonthView{Leading: grid.Leading, Cells: cells}
}

// Shift moves the reference date one period in the direction of delta.
func Shift(d model.Date, mode ViewMode, delta int) model.Date {
	switch mode {
	case ViewWeek:
		return d.AddDays(7 * delta)
	case ViewMonth:
		return d.AddMonths(delta)
	default:
		return d.AddDays(delta)
	}
}

type DayProgress struct {
	Completed int
	Total     int
	Percent   int
}

func Progress(tasks []model.Task) DayProgress {
	p := DayProgress{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = (p.Completed*100 + p.Total/2) / p.Total
	}
	return p
}

func HeaderLabel(d model.Date, mode ViewMode) string {
	t := d.Time()
	switch mode {
	case ViewWeek:
		w := Week(d)
		return w[0].Time().Format("Jan 2") + " - " + w[6].Time().Format("Jan 2")
	case ViewMonth:
		return t.Format("January 2006")
	default:
		return t.Format("Mon, January 2")
	}
}
