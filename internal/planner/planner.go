package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/daystream/internal/model"
)

var (
	ErrMalformedResponse = errors.New("planner: malformed response")
	ErrNotConfigured     = errors.New("planner: api key not configured")
)

// DefaultStart is used when a proposal arrives without a start time.
var DefaultStart = model.Clock{Hour: 9}

// Planner turns a free-text description of a day into proposed tasks.
type Planner interface {
	Generate(ctx context.Context, input, currentDate string) ([]model.Proposal, error)
}

type PlannerFunc func(ctx context.Context, input, currentDate string) ([]model.Proposal, error)

func (f PlannerFunc) Generate(ctx context.Context, input, currentDate string) ([]model.Proposal, error) {
	return f(ctx, input, currentDate)
}

type rawProposal struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartTime       string `json:"startTime"`
	DurationMinutes *int   `json:"durationMinutes"`
	Category        string `json:"category"`
}

// ParseProposals decodes the model's JSON array. An empty list, a non-array
// payload, or any invalid entry fails the whole response.
func ParseProposals(raw []byte) ([]model.Proposal, error) {
	text := stripFence(strings.TrimSpace(string(raw)))
	if text == "" {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	var items []rawProposal
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no tasks proposed", ErrMalformedResponse)
	}
	out := make([]model.Proposal, 0, len(items))
	for i, item := range items {
		p, err := item.proposal()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedResponse, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r rawProposal) proposal() (model.Proposal, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return model.Proposal{}, errors.New("title is required")
	}
	start := DefaultStart
	if s := strings.TrimSpace(r.StartTime); s != "" {
		c, err := model.ParseClock(s)
		if err != nil {
			return model.Proposal{}, err
		}
		start = c
	}
	if r.DurationMinutes == nil || *r.DurationMinutes <= 0 {
		return model.Proposal{}, model.ErrInvalidDuration
	}
	cat, err := model.ParseCategory(r.Category)
	if err != nil {
		return model.Proposal{}, err
	}
	return model.Proposal{
		Title:           title,
		Description:     strings.TrimSpace(r.Description),
		StartTime:       start,
		DurationMinutes: *r.DurationMinutes,
		Category:        cat,
	}, nil
}

// stripFence removes a ```json ... ``` wrapper some models add despite the
// JSON mime type.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
