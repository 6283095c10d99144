package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

type RecurrenceType string

const (
	RecurrenceDaily  RecurrenceType = "daily"
	RecurrenceWeekly RecurrenceType = "weekly"
	RecurrenceCustom RecurrenceType = "custom"
)

// MaxInstances caps a single expansion regardless of range length.
const MaxInstances = 365

var ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")

func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceCustom:
		return true
	default:
		return false
	}
}

type RecurrenceRule struct {
	Type RecurrenceType
	// Weekdays is only consulted for RecurrenceCustom.
	Weekdays []time.Weekday
}

func Daily() RecurrenceRule  { return RecurrenceRule{Type: RecurrenceDaily} }
func Weekly() RecurrenceRule { return RecurrenceRule{Type: RecurrenceWeekly} }

func Custom(days ...time.Weekday) RecurrenceRule {
	return RecurrenceRule{Type: RecurrenceCustom, Weekdays: days}
}

// Matches reports whether d is selected by the rule for a series starting on
// start.
func (r RecurrenceRule) Matches(start, d Date) bool {
	switch r.Type {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		return d.Weekday() == start.Weekday()
	case RecurrenceCustom:
		wd := d.Weekday()
		for _, w := range r.Weekdays {
			if w == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Expand produces one copy of base per matching date from start to end
// inclusive, in ascending date order, stopping after MaxInstances copies.
// An inverted range, an unknown rule type, or a custom rule without weekdays
// yields no instances.
func Expand(base Draft, start, end Date, rule RecurrenceRule) []Draft {
	out := make([]Draft, 0)
	for d := start; !d.After(end); d = d.AddDays(1) {
		if !rule.Matches(start, d) {
			continue
		}
		inst := base
		inst.Date = d
		out = append(out, inst)
		if len(out) >= MaxInstances {
			break
		}
	}
	return out
}

// Preview lists the first n dates the rule would select.
func (r RecurrenceRule) Preview(start, end Date, n int) []Date {
	if n <= 0 {
		return []Date{}
	}
	out := make([]Date, 0, n)
	for _, inst := range Expand(Draft{}, start, end, r) {
		out = append(out, inst.Date)
		if len(out) == n {
			break
		}
	}
	return out
}

// RRule renders the rule as RFC 5545 recurrence text bounded by end. The
// instance cap is enforced by Expand, not by a COUNT part.
func (r RecurrenceRule) RRule(start, end Date) (string, error) {
	opt := rrule.ROption{
		Dtstart: start.Time(),
		Until:   end.Time(),
	}
	switch r.Type {
	case RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{toRRuleWeekday(start.Weekday())}
	case RecurrenceCustom:
		if len(r.Weekdays) == 0 {
			return "", errors.New("model: custom recurrence requires at least one weekday")
		}
		opt.Freq = rrule.WEEKLY
		for _, w := range sortedWeekdays(r.Weekdays) {
			opt.Byweekday = append(opt.Byweekday, toRRuleWeekday(w))
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, r.Type)
	}
	return opt.RRuleString(), nil
}

func (r RecurrenceRule) String() string {
	if r.Type != RecurrenceCustom {
		return string(r.Type)
	}
	names := make([]string, 0, len(r.Weekdays))
	for _, w := range sortedWeekdays(r.Weekdays) {
		names = append(names, strings.ToLower(w.String()[:2]))
	}
	return "custom:" + strings.Join(names, ",")
}

// ParseWeekdays reads a comma separated list such as "mo,we,fr" or
// "monday,wednesday". Duplicates collapse.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool)
	out := make([]time.Weekday, 0, 7)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		wd, ok := lookupWeekday(part)
		if !ok {
			return nil, fmt.Errorf("model: unknown weekday %q", part)
		}
		if !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	return sortedWeekdays(out), nil
}

func lookupWeekday(s string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) >= 2 && strings.HasPrefix(name, s)) {
			return wd, true
		}
	}
	return 0, false
}

// sortedWeekdays orders Monday first.
func sortedWeekdays(in []time.Weekday) []time.Weekday {
	out := append([]time.Weekday(nil), in...)
	sort.Slice(out, func(i, j int) bool {
		return (int(out[i])+6)%7 < (int(out[j])+6)%7
	})
	return out
}

func toRRuleWeekday(w time.Weekday) rrule.Weekday {
	switch w {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
