package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/model"
)

var ErrMalformed = errors.New("storage: malformed task payload")

// TaskRepository persists the whole task collection as one JSON blob.
type TaskRepository struct {
	store  Store
	logger *logrus.Logger
}

func NewTaskRepository(store Store, logger *logrus.Logger) *TaskRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TaskRepository{store: store, logger: logger}
}

// Load returns the saved collection. A missing key is an empty collection;
// an unreadable payload or store is logged and discarded.
func (r *TaskRepository) Load(ctx context.Context, today model.Date) ([]model.Task, error) {
	raw, err := r.store.Get(ctx, KeyTasks)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Task{}, nil
		}
		if errors.Is(err, ErrCorrupt) {
			r.logger.WithError(err).Warn("discarding unreadable task store")
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks, err := DecodeTasks(raw, today)
	if err != nil {
		r.logger.WithError(err).WithField("bytes", len(raw)).Warn("discarding unreadable task payload")
		return []model.Task{}, nil
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, tasks []model.Task) error {
	raw, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, KeyTasks, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func EncodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

// DecodeTasks parses a saved collection. Records without a date are given
// today's date.
func DecodeTasks(raw []byte, today model.Date) ([]model.Task, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	for i := range tasks {
		if tasks[i].Date.IsZero() {
			tasks[i].Date = today
		}
	}
	return tasks, nil
}
