package store

import (
	"context"
	"errors"
)

// Keys of the persisted slots.
const (
	KeyTasks = "todo.tasks"
	KeyTheme = "todo.theme"
	KeyUser  = "todo.user"
)

// ErrNotFound is returned by Get when a key has never been written or
// has been deleted.
var ErrNotFound = errors.New("key not found")

// Store defines durable key-value persistence. Each key is a single
// shared mutable slot holding a string value; writes replace the slot.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
