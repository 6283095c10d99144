// Package tasks owns the in-memory task collection and every mutation applied
// to it. Each successful mutation is followed by a wholesale save.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/planner"
)

var (
	ErrNotFound       = errors.New("tasks: task not found")
	ErrInvalidTask    = errors.New("tasks: invalid task")
	ErrPlannerBusy    = errors.New("tasks: a planner request is already in progress")
	ErrPlannerFailure = errors.New("tasks: planner failed")
)

// Repository loads and saves the full collection.
type Repository interface {
	Load(ctx context.Context, today model.Date) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

// Mutation names reported to a MutationHook.
const (
	OpCreate = "create"
	OpSeries = "series"
	OpUpdate = "update"
	OpDelete = "delete"
	OpToggle = "toggle"
	OpImport = "import"
)

// MutationHook observes committed mutations and the number of tasks touched.
type MutationHook func(op string, n int)

type Option func(*Controller)

func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(c *Controller) {
		if fn != nil {
			c.now = fn
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMutationHook(hook MutationHook) Option {
	return func(c *Controller) {
		c.hook = hook
	}
}

func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.saveTimeout = d
		}
	}
}

type Controller struct {
	mu          sync.RWMutex
	tasks       []model.Task
	version     uint64
	saveMu      sync.Mutex
	saved       uint64
	repo        Repository
	planning    atomic.Bool
	newID       func() string
	now         func() time.Time
	logger      *logrus.Logger
	hook        MutationHook
	saveTimeout time.Duration
}

func New(repo Repository, opts ...Option) *Controller {
	c := &Controller{
		tasks:       []model.Task{},
		repo:        repo,
		newID:       uuid.NewString,
		now:         time.Now,
		logger:      logrus.StandardLogger(),
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory collection with the saved one.
func (c *Controller) Load(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	loaded, err := c.repo.Load(ctx, c.Today())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tasks = loaded
	c.mu.Unlock()
	c.logger.WithField("tasks", len(loaded)).Info("task collection loaded")
	return nil
}

// Today is the local calendar date at the controller's clock.
func (c *Controller) Today() model.Date {
	return model.Today(c.now())
}

func (c *Controller) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Task(nil), c.tasks...)
}

func (c *Controller) Get(id string) (model.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.tasks[i], nil
}

// SeriesMembers lists the tasks sharing seriesID in collection order.
func (c *Controller) SeriesMembers(seriesID string) []model.Task {
	out := make([]model.Task, 0)
	if seriesID == "" {
		return out
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.SeriesID == seriesID {
			out = append(out, t)
		}
	}
	return out
}

func (c *Controller) CreateSingle(d model.Draft) (model.Task, error) {
	if err := validateDraft(d); err != nil {
		return model.Task{}, err
	}
	task := d.Task(c.newID(), "")
	c.commit(OpCreate, 1, func(tasks []model.Task) []model.Task {
		return append(tasks, task)
	})
	return task, nil
}

// CreateSeries inserts every draft under one fresh series id, or none of
// them if any draft is invalid. An empty input is a no-op.
func (c *Controller) CreateSeries(drafts []model.Draft) ([]model.Task, error) {
	if len(drafts) == 0 {
		return []model.Task{}, nil
	}
	for i, d := range drafts {
		if err := validateDraft(d); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
	}
	seriesID := c.newID()
	created := make([]model.Task, 0, len(drafts))
	for _, d := range drafts {
		created = append(created, d.Task(c.newID(), seriesID))
	}
	c.commit(OpSeries, len(created), func(tasks []model.Task) []model.Task {
		return append(tasks, created...)
	})
	return created, nil
}

// CreateRecurring expands base over [start, end] and inserts the result as
// one series. A rule that selects no dates creates nothing; a missing or
// out-of-range start or end is rejected.
func (c *Controller) CreateRecurring(base model.Draft, start, end model.Date, rule model.RecurrenceRule) ([]model.Task, error) {
	if err := validateDate("series start", start); err != nil {
		return nil, err
	}
	if err := validateDate("series end", end); err != nil {
		return nil, err
	}
	drafts := model.Expand(base, start, end, rule)
	entry := c.logger.WithFields(logrus.Fields{
		"rule":      rule.String(),
		"start":     start.String(),
		"end":       end.String(),
		"instances": len(drafts),
	})
	if text, err := rule.RRule(start, end); err == nil {
		entry = entry.WithField("rrule", text)
	}
	created, err := c.CreateSeries(drafts)
	if err != nil {
		return nil, err
	}
	entry.Info("recurring series created")
	return created, nil
}

// Update merges patch over the task with id. ID and series id never change.
func (c *Controller) Update(id string, patch model.Patch) (model.Task, error) {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := patch.Apply(c.tasks[i])
	if err := updated.Validate(); err != nil {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}
	next := append([]model.Task(nil), c.tasks...)
	next[i] = updated
	c.tasks = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.afterCommit(OpUpdate, 1, snap)
	return updated, nil
}

// Delete removes the task with id. A missing id is not an error.
func (c *Controller) Delete(id string) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	next := make([]model.Task, 0, len(c.tasks)-1)
	next = append(next, c.tasks[:i]...)
	next = append(next, c.tasks[i+1:]...)
	c.tasks = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.afterCommit(OpDelete, 1, snap)
	return nil
}

func (c *Controller) ToggleComplete(id string) (model.Task, error) {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := append([]model.Task(nil), c.tasks...)
	next[i].IsCompleted = !next[i].IsCompleted
	toggled := next[i]
	c.tasks = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.afterCommit(OpToggle, 1, snap)
	return toggled, nil
}

// ImportFromPlanner stamps each proposal with a fresh id and date and inserts
// them together. Imported tasks are independent and carry no series id.
func (c *Controller) ImportFromPlanner(proposals []model.Proposal, date model.Date) ([]model.Task, error) {
	if err := validateDate("import date", date); err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return []model.Task{}, nil
	}
	created := make([]model.Task, 0, len(proposals))
	for i, p := range proposals {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: proposal %d: %w", ErrInvalidTask, i, err)
		}
		created = append(created, p.Draft(date).Task(c.newID(), ""))
	}
	c.commit(OpImport, len(created), func(tasks []model.Task) []model.Task {
		return append(tasks, created...)
	})
	return created, nil
}

// Planning reports whether a planner request is outstanding.
func (c *Controller) Planning() bool {
	return c.planning.Load()
}

// Plan asks p for a schedule of date and imports the result. Only one request
// may be outstanding at a time. On any failure nothing is committed.
func (c *Controller) Plan(ctx context.Context, p planner.Planner, text string, date model.Date) ([]model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: planner input is empty", ErrInvalidTask)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %w", ErrPlannerFailure, planner.ErrNotConfigured)
	}
	if !c.planning.CompareAndSwap(false, true) {
		return nil, ErrPlannerBusy
	}
	defer c.planning.Store(false)

	proposals, err := p.Generate(ctx, text, planner.PromptDate(date))
	if err != nil {
		c.logger.WithError(err).WithField("date", date.String()).Warn("planner request failed")
		return nil, fmt.Errorf("%w: %w", ErrPlannerFailure, err)
	}
	if len(proposals) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrPlannerFailure, planner.ErrMalformedResponse)
	}
	created, err := c.ImportFromPlanner(proposals, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlannerFailure, err)
	}
	return created, nil
}

func validateDate(what string, d model.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: %s is required", ErrInvalidTask, what)
	}
	if !d.InRange() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidTask, what, model.ErrInvalidDate)
	}
	return nil
}

func validateDraft(d model.Draft) error {
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTask)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}
	return nil
}

func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// commit applies fn to a copy of the collection so readers holding an older
// slice never observe the append.
func (c *Controller) commit(op string, n int, fn func([]model.Task) []model.Task) {
	c.mu.Lock()
	next := make([]model.Task, len(c.tasks), len(c.tasks)+n)
	copy(next, c.tasks)
	c.tasks = fn(next)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.afterCommit(op, n, snap)
}

type snapshot struct {
	version uint64
	tasks   []model.Task
}

func (c *Controller) snapshotLocked() snapshot {
	c.version++
	return snapshot{version: c.version, tasks: append([]model.Task(nil), c.tasks...)}
}

// afterCommit saves the collection. Save failures are logged and never undo
// the in-memory mutation.
// A snapshot older than one already written is skipped.
func (c *Controller) afterCommit(op string, n int, snap snapshot) {
	if c.hook != nil {
		c.hook(op, n)
	}
	if c.repo == nil {
		return
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if snap.version <= c.saved {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	defer cancel()
	if err := c.repo.Save(ctx, snap.tasks); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"op":    op,
			"tasks": len(snap.tasks),
		}).Error("failed to save task collection")
		return
	}
	c.saved = snap.version
}
