package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrCorrupt marks a backing file that exists but cannot be parsed.
	ErrCorrupt = errors.New("storage: corrupt store")
)

const (
	KeyTasks    = "daystream-tasks"
	KeyViewMode = "daystream-viewmode"
	KeyTheme    = "daystream-theme"
)

// Store is a key-value blob store. Put overwrites the previous value
// wholesale.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
