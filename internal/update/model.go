package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/planner"
	"github.com/sandeepkv93/daystream/internal/storage"
	"github.com/sandeepkv93/daystream/internal/tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Prev    string
	Next    string
	Today   string
	Day     string
	Week    string
	Month   string
	Up      string
	Down    string
	Toggle  string
	Delete  string
	Palette string
	Plan    string
	Theme   string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// PlannerState tracks the prompt and the single outstanding request.
type PlannerState struct {
	Active  bool
	Pending bool
	Input   string
	Date    model.Date
}

type ConfirmState struct {
	Active bool
	TaskID string
	Title  string
}

// Deps are the collaborators the UI drives. Planner and Store may be nil.
type Deps struct {
	Tasks       *tasks.Controller
	Planner     planner.Planner
	Store       storage.Store
	Logger      *logrus.Logger
	Now         func() time.Time
	PlanTimeout time.Duration
}

type Model struct {
	Mode           calendar.ViewMode
	Focus          model.Date
	Theme          storage.Theme
	SelectedTaskID string
	Cursor         int
	Palette        CommandPaletteState
	Planner        PlannerState
	Confirm        ConfirmState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	deps         Deps
	commandInput textinput.Model
	plannerInput textinput.Model
	planSpinner  spinner.Model
	helpModel    help.Model
}

type SwitchViewMsg struct {
	Mode calendar.ViewMode
}

type GotoDateMsg struct {
	Date model.Date
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// PlanResultMsg carries the outcome of a planner request.
type PlanResultMsg struct {
	Date  model.Date
	Tasks []model.Task
	Err   error
}

func DefaultKeys() GlobalKeyMap {
	return GlobalKeyMap{
		Prev:    "h",
		Next:    "l",
		Today:   "t",
		Day:     "d",
		Week:    "w",
		Month:   "m",
		Up:      "k",
		Down:    "j",
		Toggle:  " ",
		Delete:  "x",
		Palette: "/",
		Plan:    "p",
		Theme:   "T",
		Help:    "?",
		Quit:    "q",
	}
}

func NewModel(deps Deps, prefs storage.Preferences) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.PlanTimeout <= 0 {
		deps.PlanTimeout = 30 * time.Second
	}
	if deps.Tasks == nil {
		deps.Tasks = tasks.New(nil, tasks.WithClock(deps.Now), tasks.WithLogger(deps.Logger))
	}
	if !prefs.ViewMode.IsValid() {
		prefs.ViewMode = calendar.ViewDay
	}
	if prefs.Theme != storage.ThemeLight {
		prefs.Theme = storage.ThemeDark
	}

	m := Model{
		Mode:  prefs.ViewMode,
		Focus: model.Today(deps.Now()),
		Theme: prefs.Theme,
		Keys:  DefaultKeys(),
		deps:  deps,
	}
	m.initBubbleComponents()
	m.syncSelection()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = ""
	m.commandInput.Placeholder = "add 09:00 30 work title"
	m.commandInput.CharLimit = 240

	m.plannerInput = textinput.New()
	m.plannerInput.Prompt = ""
	m.plannerInput.Placeholder = "gym at 7, deep work until lunch, call mom after 6"
	m.plannerInput.CharLimit = 1000

	m.planSpinner = spinner.New()
	m.planSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// today is read from the clock on every call so the marker moves at midnight.
func (m Model) today() model.Date {
	return model.Today(m.deps.Now())
}

func (m Model) preferences() storage.Preferences {
	return storage.Preferences{ViewMode: m.Mode, Theme: m.Theme}
}

func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
