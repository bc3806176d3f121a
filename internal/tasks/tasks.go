// Package tasks holds the in-memory task collection and mirrors it to
// durable storage after every mutation.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
)

// ErrTaskNotFound is returned when an operation names an unknown id.
var ErrTaskNotFound = errors.New("task not found")

// Store is the ordered task collection. It is not safe for concurrent
// use; callers drive it from a single event loop.
type Store struct {
	kv         store.Store
	tasks      []model.Task
	now        func() time.Time
	dateFormat string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids and dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDateFormat sets the layout used for new task dates.
func WithDateFormat(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.dateFormat = layout
		}
	}
}

// New creates an empty Store persisting to kv. Call Load to read the
// persisted collection.
func New(kv store.Store, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		now:        time.Now,
		dateFormat: model.DefaultDateFormat,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A
// missing slot is an empty list. A corrupt slot is logged and also
// loads as empty; it is left untouched until the next mutation.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, store.KeyTasks)
	if errors.Is(err, store.ErrNotFound) {
		s.tasks = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	tasks, err := Decode(raw)
	if err != nil {
		log.Printf("ignoring corrupt %s slot: %v", store.KeyTasks, err)
		s.tasks = nil
		return nil
	}
	s.tasks = tasks
	return nil
}

// Tasks returns a copy of the collection in stored order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Get returns the task with id.
func (s *Store) Get(id int64) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Add prepends a new task. Blank text is ignored and reports false.
func (s *Store) Add(ctx context.Context, text string) (model.Task, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, false, nil
	}

	now := s.now()
	task := model.Task{
		ID:   s.nextID(now.UnixMilli()),
		Text: text,
		Done: false,
		Date: now.Format(s.dateFormat),
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	return task, true, s.save(ctx)
}

// Toggle flips the done flag of the task with id.
func (s *Store) Toggle(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("toggling %d: %w", id, ErrTaskNotFound)
	}
	s.tasks[i].Done = !s.tasks[i].Done
	return s.save(ctx)
}

// SetDone sets the done flag of the task with id, as a checkbox would.
func (s *Store) SetDone(ctx context.Context, id int64, done bool) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("updating %d: %w", id, ErrTaskNotFound)
	}
	s.tasks[i].Done = done
	return s.save(ctx)
}

// EditText applies an edit-text dialog answer. A cancelled dialog
// changes nothing; an empty answer deletes the task.
func (s *Store) EditText(ctx context.Context, id int64, answer model.PromptResult) error {
	if answer.Cancelled {
		return nil
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("editing %d: %w", id, ErrTaskNotFound)
	}

	text := strings.TrimSpace(answer.Value)
	if text == "" {
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	} else {
		s.tasks[i].Text = text
	}
	return s.save(ctx)
}

// EditDate applies an edit-date dialog answer. A cancelled dialog
// changes nothing; an empty answer keeps the previous date. Any other
// string is stored as-is after trimming.
func (s *Store) EditDate(ctx context.Context, id int64, answer model.PromptResult) error {
	if answer.Cancelled {
		return nil
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("editing date of %d: %w", id, ErrTaskNotFound)
	}

	if date := strings.TrimSpace(answer.Value); date != "" {
		s.tasks[i].Date = date
	}
	return s.save(ctx)
}

// Remove deletes the task with id.
func (s *Store) Remove(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("removing %d: %w", id, ErrTaskNotFound)
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return s.save(ctx)
}

// ClearCompleted deletes every done task and reports how many went.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	return removed, s.save(ctx)
}

// ClearAll deletes every task when confirmed. A declined confirmation
// leaves the collection and storage untouched.
func (s *Store) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return nil
	}
	s.tasks = nil
	return s.save(ctx)
}

// Encode serializes tasks as the persisted JSON array.
func Encode(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(b), nil
}

// Decode parses the persisted JSON array.
func Decode(raw string) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	return tasks, nil
}

// save writes the whole collection to the tasks slot.
func (s *Store) save(ctx context.Context) error {
	raw, err := Encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.KeyTasks, raw); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

func (s *Store) index(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns candidate when it is above every id in the collection,
// and one past the largest id otherwise.
func (s *Store) nextID(candidate int64) int64 {
	var highest int64
	for _, t := range s.tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	if candidate > highest {
		return candidate
	}
	return highest + 1
}
