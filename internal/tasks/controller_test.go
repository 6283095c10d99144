package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/planner"
)

type memRepo struct {
	mu      sync.Mutex
	loaded  []model.Task
	saves   [][]model.Task
	saveErr error
}

func (r *memRepo) Load(context.Context, model.Date) ([]model.Task, error) {
	return append([]model.Task(nil), r.loaded...), nil
}

func (r *memRepo) Save(_ context.Context, tasks []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, append([]model.Task(nil), tasks...))
	return r.saveErr
}

func (r *memRepo) lastSave(t *testing.T) []model.Task {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		t.Fatal("expected at least one save")
	}
	return r.saves[len(r.saves)-1]
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newController(t *testing.T, repo *memRepo, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.Local) }),
	}
	return New(repo, append(base, opts...)...)
}

func draft(d model.Date, title string) model.Draft {
	return model.Draft{
		Title:           title,
		Date:            d,
		StartTime:       model.MustClock("09:00"),
		DurationMinutes: 30,
		Category:        model.CategoryPersonal,
	}
}

var march1 = model.NewDate(2024, time.March, 1)

func TestCreateSingle(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	task, err := c.CreateSingle(draft(march1, "Call mom"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != "id-1" || task.SeriesID != "" || task.IsCompleted {
		t.Fatalf("unexpected task: %+v", task)
	}
	if got := c.Tasks(); len(got) != 1 || got[0] != task {
		t.Fatalf("unexpected collection: %+v", got)
	}
	if saved := repo.lastSave(t); len(saved) != 1 || saved[0].ID != "id-1" {
		t.Fatalf("unexpected saved collection: %+v", saved)
	}
}

func TestCreateSingleRejectsInvalidDraft(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	bad := draft(march1, "  ")
	if _, err := c.CreateSingle(bad); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if _, err := c.CreateSingle(draft(model.Date{}, "No date")); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for missing date, got %v", err)
	}
	if len(c.Tasks()) != 0 || repo.saveCount() != 0 {
		t.Fatal("invalid draft must not mutate or save")
	}
}

func TestCreateRecurringWeeklySharesSeries(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	base := draft(model.Date{}, "Gym")
	created, err := c.CreateRecurring(base, march1, model.NewDate(2024, time.March, 31), model.Weekly())
	if err != nil {
		t.Fatalf("create recurring: %v", err)
	}
	wantDates := []string{"2024-03-01", "2024-03-08", "2024-03-15", "2024-03-22", "2024-03-29"}
	if len(created) != len(wantDates) {
		t.Fatalf("expected %d instances, got %d", len(wantDates), len(created))
	}
	ids := make(map[string]bool)
	for i, task := range created {
		if task.Date.String() != wantDates[i] {
			t.Fatalf("instance %d has date %s, want %s", i, task.Date, wantDates[i])
		}
		if task.SeriesID != "id-1" {
			t.Fatalf("instance %d has series %q", i, task.SeriesID)
		}
		if ids[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		ids[task.ID] = true
	}
	if got := c.SeriesMembers("id-1"); len(got) != 5 {
		t.Fatalf("expected 5 series members, got %d", len(got))
	}
	if repo.saveCount() != 1 {
		t.Fatalf("expected one save for the whole series, got %d", repo.saveCount())
	}
}

func TestCreateRecurringEmptyRangeCreatesNothing(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	created, err := c.CreateRecurring(draft(model.Date{}, "x"), march1, march1.AddDays(-1), model.Daily())
	if err != nil || len(created) != 0 {
		t.Fatalf("expected empty result, got %v (%v)", created, err)
	}
	created, err = c.CreateRecurring(draft(model.Date{}, "x"), march1, march1.AddDays(30), model.Custom())
	if err != nil || len(created) != 0 {
		t.Fatalf("expected empty result for custom rule without weekdays, got %v (%v)", created, err)
	}
	if repo.saveCount() != 0 {
		t.Fatal("empty series must not save")
	}
}

func TestCreateRecurringRejectsUnusableRange(t *testing.T) {
	existing := draft(march1, "Keep me").Task("old-1", "")
	repo := &memRepo{loaded: []model.Task{existing}}
	c := newController(t, repo)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	end := model.NewDate(2024, time.March, 31)
	far := model.Date{Year: 10000, Month: time.January, Day: 1}

	cases := []struct {
		name       string
		start, end model.Date
	}{
		{"zero start", model.Date{}, end},
		{"zero end", march1, model.Date{}},
		{"five digit end", march1, far},
		{"five digit start", far, far.AddDays(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := c.CreateRecurring(draft(model.Date{}, "Gym"), tc.start, tc.end, model.Custom(time.Monday))
			if !errors.Is(err, ErrInvalidTask) {
				t.Fatalf("expected ErrInvalidTask, got %v (%d created)", err, len(created))
			}
		})
	}
	if got := c.Tasks(); len(got) != 1 || got[0].ID != "old-1" {
		t.Fatalf("collection changed: %+v", got)
	}
	if repo.saveCount() != 0 {
		t.Fatal("rejected series must not save")
	}
}

func TestInvalidDraftKeepsModelCause(t *testing.T) {
	c := newController(t, &memRepo{})

	bad := draft(march1, "Sort socks")
	bad.Category = model.Category("Chores")
	_, err := c.CreateSingle(bad)
	if !errors.Is(err, ErrInvalidTask) || !errors.Is(err, model.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidTask wrapping ErrInvalidCategory, got %v", err)
	}

	_, err = c.CreateSingle(draft(model.Date{Year: 10000, Month: time.January, Day: 1}, "Far future"))
	if !errors.Is(err, ErrInvalidTask) || !errors.Is(err, model.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidTask wrapping ErrInvalidDate, got %v", err)
	}

	task, err := c.CreateSingle(draft(march1, "Stretch"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zero := 0
	if _, err := c.Update(task.ID, model.Patch{DurationMinutes: &zero}); !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration through Update, got %v", err)
	}

	_, err = c.ImportFromPlanner([]model.Proposal{{Title: "x", StartTime: model.MustClock("09:00"), Category: model.CategoryWork}}, march1)
	if !errors.Is(err, ErrInvalidTask) || !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidTask wrapping ErrInvalidDuration, got %v", err)
	}
}

func TestCreateSeriesIsAllOrNone(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	drafts := []model.Draft{draft(march1, "a"), draft(march1, "b")}
	drafts[1].Category = "Chores"
	if _, err := c.CreateSeries(drafts); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if len(c.Tasks()) != 0 {
		t.Fatal("no instance may be inserted when one is invalid")
	}
}

func TestUpdateMergesFields(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)
	task, _ := c.CreateSingle(draft(march1, "Read"))
	_, _ = c.ToggleComplete(task.ID)

	start := model.MustClock("18:30")
	updated, err := c.Update(task.ID, model.Patch{StartTime: &start})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.StartTime != start || updated.Title != "Read" || !updated.IsCompleted || updated.ID != task.ID {
		t.Fatalf("unexpected merge: %+v", updated)
	}
	if got, _ := c.Get(task.ID); got != updated {
		t.Fatalf("stored task differs: %+v", got)
	}
}

func TestUpdateMissingAndInvalid(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)
	task, _ := c.CreateSingle(draft(march1, "Read"))
	saves := repo.saveCount()

	title := "x"
	if _, err := c.Update("nope", model.Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	zero := 0
	if _, err := c.Update(task.ID, model.Patch{DurationMinutes: &zero}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if got, _ := c.Get(task.ID); got != task {
		t.Fatalf("failed update mutated task: %+v", got)
	}
	if repo.saveCount() != saves {
		t.Fatal("failed update must not save")
	}
}

func TestToggleComplete(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)
	task, _ := c.CreateSingle(draft(march1, "Walk"))

	toggled, err := c.ToggleComplete(task.ID)
	if err != nil || !toggled.IsCompleted {
		t.Fatalf("expected completed task, got %+v (%v)", toggled, err)
	}
	toggled, _ = c.ToggleComplete(task.ID)
	if toggled.IsCompleted {
		t.Fatal("second toggle should clear completion")
	}
}

func TestToggleMissingLeavesStoreUnchanged(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)
	_, _ = c.CreateSingle(draft(march1, "Walk"))
	before := c.Tasks()
	saves := repo.saveCount()

	if _, err := c.ToggleComplete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	after := c.Tasks()
	if len(after) != len(before) || after[0] != before[0] || repo.saveCount() != saves {
		t.Fatal("store changed on missing toggle")
	}
}

func TestDeleteDoesNotCascade(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)
	created, _ := c.CreateRecurring(draft(model.Date{}, "Standup"), march1, march1.AddDays(2), model.Daily())

	if err := c.Delete(created[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := c.SeriesMembers(created[0].SeriesID); len(got) != 2 {
		t.Fatalf("expected siblings to survive, got %d", len(got))
	}
	saves := repo.saveCount()
	if err := c.Delete("missing"); err != nil {
		t.Fatalf("delete of missing id should be a no-op, got %v", err)
	}
	if repo.saveCount() != saves {
		t.Fatal("no-op delete must not save")
	}
}

func TestImportFromPlannerStampsTasks(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	proposals := []model.Proposal{
		{Title: "Plan", StartTime: model.MustClock("09:00"), DurationMinutes: 30, Category: model.CategoryWork},
		{Title: "Lunch", StartTime: model.MustClock("12:00"), DurationMinutes: 45, Category: model.CategoryPersonal},
	}
	target := model.NewDate(2024, time.March, 4)
	created, err := c.ImportFromPlanner(proposals, target)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(created) != 2 || created[0].ID == created[1].ID {
		t.Fatalf("unexpected import: %+v", created)
	}
	for _, task := range created {
		if task.Date != target || task.IsCompleted || task.SeriesID != "" {
			t.Fatalf("bad stamping: %+v", task)
		}
	}
	if repo.saveCount() != 1 {
		t.Fatalf("expected a single bulk save, got %d", repo.saveCount())
	}
}

func TestPlanImportsGeneratedTasks(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	var gotDate string
	p := planner.PlannerFunc(func(_ context.Context, input, currentDate string) ([]model.Proposal, error) {
		gotDate = currentDate
		return []model.Proposal{{Title: input, StartTime: planner.DefaultStart, DurationMinutes: 60, Category: model.CategoryLearning}}, nil
	})
	created, err := c.Plan(context.Background(), p, "study go", march1)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(created) != 1 || created[0].Title != "study go" || created[0].Date != march1 {
		t.Fatalf("unexpected plan result: %+v", created)
	}
	if gotDate != "Friday, March 1, 2024" {
		t.Fatalf("unexpected prompt date %q", gotDate)
	}
}

func TestPlanFailureCommitsNothing(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	failing := planner.PlannerFunc(func(context.Context, string, string) ([]model.Proposal, error) {
		return nil, planner.ErrMalformedResponse
	})
	_, err := c.Plan(context.Background(), failing, "anything", march1)
	if !errors.Is(err, ErrPlannerFailure) || !errors.Is(err, planner.ErrMalformedResponse) {
		t.Fatalf("expected wrapped planner failure, got %v", err)
	}

	invalid := planner.PlannerFunc(func(context.Context, string, string) ([]model.Proposal, error) {
		return []model.Proposal{
			{Title: "ok", StartTime: planner.DefaultStart, DurationMinutes: 10, Category: model.CategoryWork},
			{Title: "bad", StartTime: planner.DefaultStart, DurationMinutes: -5, Category: model.CategoryWork},
		}, nil
	})
	if _, err := c.Plan(context.Background(), invalid, "anything", march1); !errors.Is(err, ErrPlannerFailure) {
		t.Fatalf("expected planner failure for invalid proposal, got %v", err)
	}
	if len(c.Tasks()) != 0 || repo.saveCount() != 0 {
		t.Fatal("failed plan must not commit")
	}
	if c.Planning() {
		t.Fatal("planning flag must be released after failure")
	}
}

func TestPlanRejectsConcurrentRequest(t *testing.T) {
	repo := &memRepo{}
	c := newController(t, repo)

	started := make(chan struct{})
	release := make(chan struct{})
	slow := planner.PlannerFunc(func(context.Context, string, string) ([]model.Proposal, error) {
		close(started)
		<-release
		return []model.Proposal{{Title: "a", StartTime: planner.DefaultStart, DurationMinutes: 10, Category: model.CategoryOther}}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Plan(context.Background(), slow, "first", march1)
		done <- err
	}()
	<-started

	if _, err := c.Plan(context.Background(), slow, "second", march1); !errors.Is(err, ErrPlannerBusy) {
		t.Fatalf("expected ErrPlannerBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first plan: %v", err)
	}
	if len(c.Tasks()) != 1 {
		t.Fatalf("expected only the first plan to commit, got %d tasks", len(c.Tasks()))
	}
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	repo := &memRepo{saveErr: errors.New("disk full")}
	c := newController(t, repo)

	if _, err := c.CreateSingle(draft(march1, "Still here")); err != nil {
		t.Fatalf("save errors must not surface: %v", err)
	}
	if len(c.Tasks()) != 1 {
		t.Fatal("mutation must survive a failed save")
	}
}

func TestLoadAndMutationHook(t *testing.T) {
	existing := draft(march1, "Loaded").Task("old-1", "")
	repo := &memRepo{loaded: []model.Task{existing}}
	var ops []string
	c := newController(t, repo, WithMutationHook(func(op string, n int) {
		ops = append(ops, fmt.Sprintf("%s:%d", op, n))
	}))

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, err := c.Get("old-1"); err != nil || got.Title != "Loaded" {
		t.Fatalf("expected loaded task, got %+v (%v)", got, err)
	}
	_, _ = c.ToggleComplete("old-1")
	_ = c.Delete("old-1")
	if len(ops) != 2 || ops[0] != "toggle:1" || ops[1] != "delete:1" {
		t.Fatalf("unexpected hook calls: %v", ops)
	}
	if c.Today() != march1 {
		t.Fatalf("unexpected today %s", c.Today())
	}
}
