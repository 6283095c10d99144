package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/daystream/internal/model"
)

func TestParseProposals(t *testing.T) {
	raw := []byte(`[
		{"title":"Gym","description":"legs","startTime":"07:00","durationMinutes":60,"category":"Health"},
		{"title":"Email","startTime":"","durationMinutes":30,"category":"work"}
	]`)
	got, err := ParseProposals(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(got))
	}
	if got[0].StartTime != model.MustClock("07:00") || got[0].Category != model.CategoryHealth {
		t.Fatalf("unexpected first proposal: %+v", got[0])
	}
	if got[1].StartTime != DefaultStart || got[1].Category != model.CategoryWork {
		t.Fatalf("expected default start and normalized category: %+v", got[1])
	}
}

func TestParseProposalsStripsCodeFence(t *testing.T) {
	raw := []byte("```json\n[{\"title\":\"Read\",\"startTime\":\"21:00\",\"durationMinutes\":20,\"category\":\"Learning\"}]\n```")
	got, err := ParseProposals(raw)
	if err != nil || len(got) != 1 || got[0].Title != "Read" {
		t.Fatalf("unexpected fenced parse: %+v (%v)", got, err)
	}
}

func TestParseProposalsRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":        ``,
		"empty list":   `[]`,
		"object":       `{"title":"x"}`,
		"bad time":     `[{"title":"x","startTime":"9am","durationMinutes":10,"category":"Work"}]`,
		"no duration":  `[{"title":"x","startTime":"09:00","category":"Work"}]`,
		"bad category": `[{"title":"x","startTime":"09:00","durationMinutes":10,"category":"Chores"}]`,
		"no title":     `[{"title":" ","startTime":"09:00","durationMinutes":10,"category":"Work"}]`,
	}
	for name, raw := range cases {
		if _, err := ParseProposals([]byte(raw)); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestPromptDate(t *testing.T) {
	if got := PromptDate(model.NewDate(2024, time.March, 1)); got != "Friday, March 1, 2024" {
		t.Fatalf("unexpected prompt date: %q", got)
	}
}
