package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCategory = errors.New("model: invalid task category")
	ErrInvalidDuration = errors.New("model: invalid task duration")
)

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryHealth   Category = "Health"
	CategoryLearning Category = "Learning"
	CategoryOther    Category = "Other"
)

func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther:
		return true
	default:
		return false
	}
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Duration bounds offered by the task form. The core accepts any positive
// duration.
const (
	MinDuration     = 15
	MaxDuration     = 240
	DefaultDuration = 60
)

type Task struct {
	ID              string   `json:"id"`
	SeriesID        string   `json:"seriesId,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Date            Date     `json:"date"`
	StartTime       Clock    `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	IsCompleted     bool     `json:"isCompleted"`
	Category        Category `json:"category"`
}

// EndTime may wrap past midnight for late tasks.
func (t Task) EndTime() Clock {
	return ClockFromMinutes(t.StartTime.Minutes() + t.DurationMinutes)
}

func (t Task) Draft() Draft {
	return Draft{
		Title:           t.Title,
		Description:     t.Description,
		Date:            t.Date,
		StartTime:       t.StartTime,
		DurationMinutes: t.DurationMinutes,
		Category:        t.Category,
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if t.Date.IsZero() {
		return errors.New("model: task date is required")
	}
	return t.Draft().Validate()
}

// Draft is a task payload before identity and completion state are assigned.
type Draft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Date            Date     `json:"date"`
	StartTime       Clock    `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Category        Category `json:"category"`
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !d.Date.IsZero() && !d.Date.InRange() {
		return fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, d.Date.Year, int(d.Date.Month), d.Date.Day)
	}
	if !d.StartTime.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidClock, d.StartTime)
	}
	if d.DurationMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, d.DurationMinutes)
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}
	return nil
}

// Task builds a fresh, incomplete task from the draft.
func (d Draft) Task(id, seriesID string) Task {
	return Task{
		ID:              id,
		SeriesID:        seriesID,
		Title:           d.Title,
		Description:     d.Description,
		Date:            d.Date,
		StartTime:       d.StartTime,
		DurationMinutes: d.DurationMinutes,
		Category:        d.Category,
	}
}

// Patch carries the fields of an edit. Nil fields are left untouched.
type Patch struct {
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Date            *Date     `json:"date,omitempty"`
	StartTime       *Clock    `json:"startTime,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	IsCompleted     *bool     `json:"isCompleted,omitempty"`
	Category        *Category `json:"category,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.StartTime == nil &&
		p.DurationMinutes == nil && p.IsCompleted == nil && p.Category == nil
}

func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.DurationMinutes != nil {
		t.DurationMinutes = *p.DurationMinutes
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	return t
}

// Proposal is a task suggested by the planner. It has no identity, date or
// completion state until it is imported.
type Proposal struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	StartTime       Clock    `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Category        Category `json:"category"`
}

func (p Proposal) Draft(d Date) Draft {
	return Draft{
		Title:           p.Title,
		Description:     p.Description,
		Date:            d,
		StartTime:       p.StartTime,
		DurationMinutes: p.DurationMinutes,
		Category:        p.Category,
	}
}

func (p Proposal) Validate() error {
	return p.Draft(Date{}).Validate()
}
