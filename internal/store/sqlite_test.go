package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nhle/todo/internal/store"
	"github.com/nhle/todo/tests/testutil"
)

func TestGetMissingKey(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.Get(context.Background(), store.KeyTasks)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetReplacesValue(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, store.KeyTheme, "light"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.Set(ctx, store.KeyTheme, "dark"); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := s.Get(ctx, store.KeyTheme)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "dark" {
		t.Errorf("expected dark, got %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, store.KeyUser, `{"id":"demo"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(ctx, store.KeyUser); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, store.KeyUser); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, store.KeyUser); err != nil {
		t.Errorf("deleting absent key: %v", err)
	}
}

func TestReopenKeepsValuesAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, store.KeyTasks, "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, store.KeyTasks)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}
