package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDateAndString(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if d != (Date{Year: 2024, Month: time.March, Day: 1}) {
		t.Fatalf("unexpected date: %+v", d)
	}
	if d.String() != "2024-03-01" {
		t.Fatalf("unexpected string: %q", d.String())
	}
	if d.Weekday() != time.Friday {
		t.Fatalf("expected friday, got %s", d.Weekday())
	}

	for _, bad := range []string{"", "2024-3-1", "2024-02-30", "03/01/2024"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("parse %q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDateArithmeticCrossesBoundaries(t *testing.T) {
	cases := []struct {
		from string
		days int
		want string
	}{
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-10", 1, "2024-03-11"}, // US DST switch
		{"2024-01-01", -1, "2023-12-31"},
	}
	for _, tc := range cases {
		d, _ := ParseDate(tc.from)
		if got := d.AddDays(tc.days).String(); got != tc.want {
			t.Fatalf("%s %+d days = %s, want %s", tc.from, tc.days, got, tc.want)
		}
	}

	jan31, _ := ParseDate("2023-01-31")
	if got := jan31.AddMonths(1).String(); got != "2023-03-03" {
		t.Fatalf("unexpected month overflow: %s", got)
	}
}

func TestDaysInHandlesLeapYears(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Fatalf("DaysIn(%d, %s) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestDateCompare(t *testing.T) {
	a, _ := ParseDate("2024-03-01")
	b, _ := ParseDate("2024-03-02")
	if !a.Before(b) || !b.After(a) || a.Equal(b) {
		t.Fatalf("unexpected ordering between %s and %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Fatal("expected equal compare")
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	if c.Minutes() != 545 || c.String() != "09:05" {
		t.Fatalf("unexpected clock: %+v", c)
	}
	if _, err := ParseClock("24:00"); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}
	if got := ClockFromMinutes(23*60 + 90).String(); got != "00:30" {
		t.Fatalf("unexpected wrapped clock: %s", got)
	}
}

func TestDateAndClockJSON(t *testing.T) {
	type payload struct {
		Date  Date  `json:"date"`
		Start Clock `json:"startTime"`
	}
	raw, err := json.Marshal(payload{Date: NewDate(2024, time.March, 1), Start: MustClock("14:30")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"date":"2024-03-01","startTime":"14:30"}` {
		t.Fatalf("unexpected json: %s", raw)
	}

	var legacy payload
	if err := json.Unmarshal([]byte(`{"startTime":"08:00"}`), &legacy); err != nil {
		t.Fatalf("unmarshal legacy: %v", err)
	}
	if !legacy.Date.IsZero() || legacy.Start != MustClock("08:00") {
		t.Fatalf("unexpected legacy decode: %+v", legacy)
	}
}

func TestDateInRange(t *testing.T) {
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2024, time.February, 29), true},
		{Date{Year: 1, Month: time.January, Day: 1}, true},
		{Date{Year: 9999, Month: time.December, Day: 31}, true},
		{Date{}, false},
		{Date{Year: -1, Month: time.December, Day: 6}, false},
		{Date{Year: 10000, Month: time.January, Day: 1}, false},
		{Date{Year: 2023, Month: time.February, Day: 29}, false},
	}
	for _, tc := range cases {
		if got := tc.d.InRange(); got != tc.want {
			t.Fatalf("%+v.InRange() = %v, want %v", tc.d, got, tc.want)
		}
	}
}
