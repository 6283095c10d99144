// Package export renders the task collection as an iCalendar feed.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sandeepkv93/daystream/internal/model"
)

const (
	ProductID = "-//daystream//planner//EN"

	// floatingLayout has no zone suffix, so clients show the task at the same
	// wall-clock time wherever they are.
	floatingLayout = "20060102T150405"

	PropertyCompleted = "X-DAYSTREAM-COMPLETED"
)

// Calendar builds one VEVENT per task, ordered by date then start time.
func Calendar(tasks []model.Task, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, t := range ordered(tasks) {
		ev := cal.AddEvent(t.ID)
		ev.SetDtStampTime(stamp.UTC())
		start := t.StartTime.On(t.Date, time.UTC)
		end := start.Add(time.Duration(t.DurationMinutes) * time.Minute)
		ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
		ev.SetSummary(t.Title)
		if strings.TrimSpace(t.Description) != "" {
			ev.SetDescription(t.Description)
		}
		ev.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(t.Category)))
		ev.SetProperty(ical.ComponentPropertyStatus, "CONFIRMED")
		if t.IsCompleted {
			ev.SetProperty(ical.ComponentProperty(PropertyCompleted), "TRUE")
		}
		if t.SeriesID != "" {
			ev.SetProperty(ical.ComponentPropertyRelatedTo, t.SeriesID)
		}
	}
	return cal
}

func WriteICS(w io.Writer, tasks []model.Task, stamp time.Time) error {
	if _, err := io.WriteString(w, Calendar(tasks, stamp).Serialize()); err != nil {
		return fmt.Errorf("export: write calendar: %w", err)
	}
	return nil
}

func ordered(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].StartTime.Minutes() < out[j].StartTime.Minutes()
	})
	return out
}
