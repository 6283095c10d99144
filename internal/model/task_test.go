package model

import (
	"errors"
	"testing"
	"time"
)

func sampleDraft() Draft {
	return Draft{
		Title:           "Deep work",
		Description:     "Finish the quarterly report",
		Date:            NewDate(2024, time.March, 1),
		StartTime:       MustClock("09:00"),
		DurationMinutes: 60,
		Category:        CategoryWork,
	}
}

func TestDraftValidateSuccess(t *testing.T) {
	if err := sampleDraft().Validate(); err != nil {
		t.Fatalf("expected valid draft, got error: %v", err)
	}
}

func TestDraftValidateFailures(t *testing.T) {
	d := sampleDraft()
	d.Title = "  "
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for blank title")
	}

	d = sampleDraft()
	d.DurationMinutes = 0
	if err := d.Validate(); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got: %v", err)
	}

	d = sampleDraft()
	d.Date = Date{Year: 10000, Month: time.January, Day: 1}
	if err := d.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for a five-digit year, got: %v", err)
	}

	d = sampleDraft()
	d.Date = NewDate(0, time.January, 1).AddDays(-26)
	if err := d.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for a negative year, got: %v", err)
	}

	d = sampleDraft()
	d.Category = Category("Chores")
	if err := d.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got: %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("health")
	if err != nil || got != CategoryHealth {
		t.Fatalf("expected Health, got %q (%v)", got, err)
	}
	if _, err := ParseCategory("errands"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got: %v", err)
	}
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Fatalf("expected valid category: %q", c)
		}
	}
}

func TestPatchApplyLeavesUnsetFields(t *testing.T) {
	task := sampleDraft().Task("task-1", "series-1")
	task.IsCompleted = true

	title := "Shallow work"
	mins := 30
	patched := Patch{Title: &title, DurationMinutes: &mins}.Apply(task)

	if patched.ID != "task-1" || patched.SeriesID != "series-1" {
		t.Fatalf("identity changed: %+v", patched)
	}
	if patched.Title != title || patched.DurationMinutes != 30 {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if !patched.IsCompleted || patched.StartTime != task.StartTime || patched.Category != CategoryWork {
		t.Fatalf("unset fields changed: %+v", patched)
	}
	if !(Patch{}).IsEmpty() {
		t.Fatal("expected zero patch to be empty")
	}
}

func TestTaskEndTime(t *testing.T) {
	task := sampleDraft().Task("task-1", "")
	task.StartTime = MustClock("23:30")
	if got := task.EndTime().String(); got != "00:30" {
		t.Fatalf("unexpected end time: %s", got)
	}
}

func TestProposalDraftStampsDate(t *testing.T) {
	p := Proposal{Title: "Stretch", StartTime: MustClock("07:15"), DurationMinutes: 15, Category: CategoryHealth}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	d := p.Draft(NewDate(2024, time.March, 4))
	if d.Date != NewDate(2024, time.March, 4) || d.Title != "Stretch" {
		t.Fatalf("unexpected draft: %+v", d)
	}
	p.Category = "Chores"
	if err := p.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
