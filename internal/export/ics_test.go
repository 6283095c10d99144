package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sandeepkv93/daystream/internal/model"
)

func sampleTasks() []model.Task {
	d := model.NewDate(2024, time.March, 4)
	return []model.Task{
		{ID: "b", Title: "Lunch", Date: d, StartTime: model.MustClock("12:00"), DurationMinutes: 45, Category: model.CategoryPersonal, IsCompleted: true},
		{ID: "a", SeriesID: "s-1", Title: "Standup", Description: "daily sync", Date: d, StartTime: model.MustClock("09:30"), DurationMinutes: 15, Category: model.CategoryWork},
		{ID: "c", Title: "Run", Date: d.AddDays(-1), StartTime: model.MustClock("18:00"), DurationMinutes: 60, Category: model.CategoryHealth},
	}
}

func TestWriteICSRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	stamp := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	if err := WriteICS(&buf, sampleTasks(), stamp); err != nil {
		t.Fatalf("write: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Id() != "c" || events[1].Id() != "a" || events[2].Id() != "b" {
		t.Fatalf("unexpected order: %s %s %s", events[0].Id(), events[1].Id(), events[2].Id())
	}

	standup := events[1]
	if got := standup.GetProperty(ical.ComponentPropertyDtStart).Value; got != "20240304T093000" {
		t.Fatalf("expected floating start, got %s", got)
	}
	if got := standup.GetProperty(ical.ComponentPropertyDtEnd).Value; got != "20240304T094500" {
		t.Fatalf("unexpected end: %s", got)
	}
	if got := standup.GetProperty(ical.ComponentPropertySummary).Value; got != "Standup" {
		t.Fatalf("unexpected summary: %s", got)
	}
	if got := standup.GetProperty(ical.ComponentPropertyCategories).Value; got != "WORK" {
		t.Fatalf("unexpected categories: %s", got)
	}
	if p := standup.GetProperty(ical.ComponentPropertyRelatedTo); p == nil || p.Value != "s-1" {
		t.Fatalf("expected series id in RELATED-TO, got %+v", p)
	}
	if p := standup.GetProperty(ical.ComponentProperty(PropertyCompleted)); p != nil {
		t.Fatal("incomplete task must not carry completion flag")
	}
	if p := events[2].GetProperty(ical.ComponentProperty(PropertyCompleted)); p == nil || p.Value != "TRUE" {
		t.Fatalf("expected completion flag on lunch, got %+v", p)
	}
}

func TestWriteICSEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, nil, time.Now()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") || strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Fatalf("unexpected empty calendar: %s", buf.String())
	}
}
