package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeRepeat Type = "repeat"
	TypeEdit   Type = "edit"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeGoto   Type = "goto"
	TypeView   Type = "view"
	TypePlan   Type = "plan"
	TypeTheme  Type = "theme"
	TypeExport Type = "export"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Slot is the start, length and category shared by add and repeat.
type Slot struct {
	Start           model.Clock
	DurationMinutes int
	Category        model.Category
	Title           string
}

type AddArgs struct {
	Slot
}

type RepeatArgs struct {
	Rule model.RecurrenceRule
	End  model.Date
	Slot
}

type EditArgs struct {
	Patch model.Patch
}

type GotoArgs struct {
	Today bool
	Date  model.Date
}

type ViewArgs struct {
	Mode calendar.ViewMode
}

type PlanArgs struct {
	Input string
}

type ThemeArgs struct {
	Name string
}

type ExportArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Repeat *RepeatArgs
	Edit   *EditArgs
	Goto   *GotoArgs
	View   *ViewArgs
	Plan   *PlanArgs
	Theme  *ThemeArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRepeat:
		return parseRepeat(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeDone, TypeDelete:
		if len(args) != 0 {
			return Command{}, invalid("%s takes no arguments", head)
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeGoto:
		return parseGoto(input, args)
	case TypeView:
		return parseView(input, args)
	case TypePlan:
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return Command{}, invalid("plan requires a description of your day")
		}
		return Command{Type: TypePlan, Raw: input, Plan: &PlanArgs{Input: text}}, nil
	case TypeTheme:
		return parseTheme(input, args)
	case TypeExport:
		if len(args) != 1 {
			return Command{}, invalid("export requires a single file path")
		}
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Path: args[0]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseSlot reads "HH:MM minutes category title...".
func parseSlot(verb string, args []string) (Slot, error) {
	if len(args) < 4 {
		return Slot{}, invalid("%s requires start, minutes, category and title", verb)
	}
	start, err := model.ParseClock(args[0])
	if err != nil {
		return Slot{}, invalid("start must be HH:MM, got %q", args[0])
	}
	mins, err := strconv.Atoi(args[1])
	if err != nil || mins <= 0 {
		return Slot{}, invalid("minutes must be a positive number, got %q", args[1])
	}
	cat, err := model.ParseCategory(args[2])
	if err != nil {
		return Slot{}, invalid("category must be one of %s", categoryList())
	}
	title := strings.TrimSpace(strings.Join(args[3:], " "))
	if title == "" {
		return Slot{}, invalid("%s requires a title", verb)
	}
	return Slot{Start: start, DurationMinutes: mins, Category: cat, Title: title}, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	slot, err := parseSlot("add", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Slot: slot}}, nil
}

func parseRepeat(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("repeat requires a rule and an end date")
	}
	rule, err := parseRule(args[0])
	if err != nil {
		return Command{}, err
	}
	end, err := model.ParseDate(args[1])
	if err != nil {
		return Command{}, invalid("end date must be YYYY-MM-DD, got %q", args[1])
	}
	slot, err := parseSlot("repeat", args[2:])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeRepeat, Raw: raw, Repeat: &RepeatArgs{Rule: rule, End: end, Slot: slot}}, nil
}

func parseRule(s string) (model.RecurrenceRule, error) {
	switch strings.ToLower(s) {
	case string(model.RecurrenceDaily):
		return model.Daily(), nil
	case string(model.RecurrenceWeekly):
		return model.Weekly(), nil
	}
	days, err := model.ParseWeekdays(s)
	if err != nil || len(days) == 0 {
		return model.RecurrenceRule{}, invalid("rule must be daily, weekly or a weekday list like mo,we,fr")
	}
	return model.Custom(days...), nil
}

// parseEdit reads key=value pairs. title= and desc= consume the rest of the
// line so they may contain spaces.
func parseEdit(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("edit requires at least one field=value")
	}
	var p model.Patch
	for i := 0; i < len(args); i++ {
		key, value, ok := strings.Cut(args[i], "=")
		if !ok {
			return Command{}, invalid("expected field=value, got %q", args[i])
		}
		switch strings.ToLower(key) {
		case "title", "desc", "description":
			text := strings.TrimSpace(strings.Join(append([]string{value}, args[i+1:]...), " "))
			if strings.ToLower(key) == "title" {
				if text == "" {
					return Command{}, invalid("title cannot be empty")
				}
				p.Title = &text
			} else {
				p.Description = &text
			}
			i = len(args)
		case "start", "time":
			c, err := model.ParseClock(value)
			if err != nil {
				return Command{}, invalid("start must be HH:MM, got %q", value)
			}
			p.StartTime = &c
		case "minutes", "duration":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return Command{}, invalid("minutes must be a positive number, got %q", value)
			}
			p.DurationMinutes = &n
		case "category":
			c, err := model.ParseCategory(value)
			if err != nil {
				return Command{}, invalid("category must be one of %s", categoryList())
			}
			p.Category = &c
		case "date":
			d, err := model.ParseDate(value)
			if err != nil {
				return Command{}, invalid("date must be YYYY-MM-DD, got %q", value)
			}
			p.Date = &d
		default:
			return Command{}, invalid("unknown field %q", key)
		}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Patch: p}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("goto requires a date or today")
	}
	if strings.EqualFold(args[0], "today") {
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Today: true}}, nil
	}
	d, err := model.ParseDate(args[0])
	if err != nil {
		return Command{}, invalid("date must be YYYY-MM-DD, got %q", args[0])
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Date: d}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("view requires day, week or month")
	}
	mode, err := calendar.ParseViewMode(args[0])
	if err != nil {
		return Command{}, invalid("view requires day, week or month")
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Mode: mode}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("theme requires dark or light")
	}
	name := strings.ToLower(args[0])
	if name != "dark" && name != "light" {
		return Command{}, invalid("theme requires dark or light")
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Name: name}}, nil
}

func categoryList() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, strings.ToLower(string(c)))
	}
	return strings.Join(names, ", ")
}
