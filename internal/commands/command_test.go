package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add 09:00 30 work write docs", TypeAdd},
		{"repeat weekly 2024-03-31 07:00 60 health gym", TypeRepeat},
		{"edit start=10:30", TypeEdit},
		{"done", TypeDone},
		{"/delete", TypeDelete},
		{"goto today", TypeGoto},
		{"view month", TypeView},
		{"plan gym at 7, then deep work until lunch", TypePlan},
		{"theme light", TypeTheme},
		{"export plan.ics", TypeExport},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddSlot(t *testing.T) {
	cmd, err := Parse("add 14:15 45 Learning read the go memory model")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := Slot{Start: model.MustClock("14:15"), DurationMinutes: 45, Category: model.CategoryLearning, Title: "read the go memory model"}
	if cmd.Add.Slot != want {
		t.Fatalf("unexpected slot: %+v", cmd.Add.Slot)
	}
}

func TestParseRepeatCustomWeekdays(t *testing.T) {
	cmd, err := Parse("repeat fr,mo,we 2024-03-31 08:00 20 personal journal")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	r := cmd.Repeat
	if r.Rule.Type != model.RecurrenceCustom || len(r.Rule.Weekdays) != 3 || r.Rule.Weekdays[0] != time.Monday {
		t.Fatalf("unexpected rule: %+v", r.Rule)
	}
	if r.End != model.NewDate(2024, time.March, 31) || r.Title != "journal" {
		t.Fatalf("unexpected repeat args: %+v", r)
	}
}

func TestParseEditFields(t *testing.T) {
	cmd, err := Parse("edit minutes=90 category=health title=Long run by the river")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	p := cmd.Edit.Patch
	if p.DurationMinutes == nil || *p.DurationMinutes != 90 {
		t.Fatalf("unexpected minutes: %+v", p)
	}
	if p.Category == nil || *p.Category != model.CategoryHealth {
		t.Fatalf("unexpected category: %+v", p)
	}
	if p.Title == nil || *p.Title != "Long run by the river" {
		t.Fatalf("unexpected title: %+v", p)
	}
	if p.StartTime != nil || p.Date != nil {
		t.Fatalf("unset fields must stay nil: %+v", p)
	}
}

func TestParseViewAndGoto(t *testing.T) {
	cmd, err := Parse("view WEEK")
	if err != nil || cmd.View.Mode != calendar.ViewWeek {
		t.Fatalf("unexpected view parse: %+v (%v)", cmd, err)
	}
	cmd, err = Parse("goto 2024-02-29")
	if err != nil || cmd.Goto.Today || cmd.Goto.Date != model.NewDate(2024, time.February, 29) {
		t.Fatalf("unexpected goto parse: %+v (%v)", cmd, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	inputs := []string{
		"add 25:00 30 work x",
		"add 09:00 0 work x",
		"add 09:00 30 chores x",
		"add 09:00 30 work",
		"repeat sometimes 2024-03-31 09:00 30 work x",
		"repeat daily 31/03/2024 09:00 30 work x",
		"edit colour=red",
		"edit start",
		"goto tomorrow-ish",
		"view year",
		"plan",
		"theme blue",
		"done now",
		"export",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add 09:00 30 work write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("view day")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
