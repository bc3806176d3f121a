package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/session"
	"github.com/nhle/todo/internal/store"
	"github.com/nhle/todo/internal/tasks"
	"github.com/nhle/todo/internal/view"
)

// Controller owns the application state and binds every user intent to
// one Task Store or Session Gate operation. It has no toolkit
// dependency; the Bubble Tea model and the CLI both drive it.
type Controller struct {
	kv    store.Store
	tasks *tasks.Store
	gate  *session.Gate
	state view.State
}

// NewController loads the persisted tasks, theme and session.
// defaultTheme applies when no theme has been persisted.
func NewController(
	ctx context.Context,
	kv store.Store,
	ts *tasks.Store,
	gate *session.Gate,
	defaultTheme model.Theme,
) (*Controller, error) {
	if err := ts.Load(ctx); err != nil {
		return nil, err
	}

	theme := defaultTheme
	raw, err := kv.Get(ctx, store.KeyTheme)
	switch {
	case err == nil:
		theme = model.ParseTheme(raw)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("loading theme: %w", err)
	}

	c := &Controller{
		kv:    kv,
		tasks: ts,
		gate:  gate,
		state: view.State{
			Filter: model.FilterAll,
			Sort:   model.SortNewest,
			Theme:  theme,
		},
	}
	if u, ok := gate.Current(ctx); ok {
		c.state.User = &u
	}
	c.sync()
	return c, nil
}

// Render returns the ViewModel for the current state.
func (c *Controller) Render() view.ViewModel {
	return view.Render(c.state)
}

// State returns a snapshot of the current state.
func (c *Controller) State() view.State {
	s := c.state
	s.Tasks = c.tasks.Tasks()
	return s
}

// Authenticated reports whether the task app is shown.
func (c *Controller) Authenticated() bool {
	return c.state.User != nil
}

// Submit adds a task from the add form. Blank input is ignored.
func (c *Controller) Submit(ctx context.Context, text string) (model.Task, bool, error) {
	if err := c.requireUser(); err != nil {
		return model.Task{}, false, err
	}
	task, added, err := c.tasks.Add(ctx, text)
	return task, added, c.finish("adding task", err)
}

// Toggle flips a task's done flag.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.finish("toggling task", c.tasks.Toggle(ctx, id))
}

// SetDone binds a checkbox state to a task.
func (c *Controller) SetDone(ctx context.Context, id int64, done bool) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.finish("updating task", c.tasks.SetDone(ctx, id, done))
}

// EditText applies an edit-text answer directly, without a dialog.
func (c *Controller) EditText(ctx context.Context, id int64, answer model.PromptResult) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.finish("editing task", c.tasks.EditText(ctx, id, answer))
}

// EditDate applies an edit-date answer directly, without a dialog.
func (c *Controller) EditDate(ctx context.Context, id int64, answer model.PromptResult) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.finish("editing date", c.tasks.EditDate(ctx, id, answer))
}

// BeginEditText opens the edit-text dialog for a task.
func (c *Controller) BeginEditText(id int64) error {
	return c.openDialog(view.DialogEditText, id)
}

// BeginEditDate opens the edit-date dialog for a task.
func (c *Controller) BeginEditDate(id int64) error {
	return c.openDialog(view.DialogEditDate, id)
}

// BeginClearAll opens the clear-all confirmation.
func (c *Controller) BeginClearAll() error {
	if err := c.requireUser(); err != nil {
		return err
	}
	c.state.Dialog = view.Dialog{Kind: view.DialogConfirmClearAll}
	return nil
}

// Resolve answers the pending edit dialog and closes it. For the
// clear-all confirmation, a cancelled answer declines and any
// submitted answer accepts.
func (c *Controller) Resolve(ctx context.Context, answer model.PromptResult) error {
	d := c.state.Dialog
	c.state.Dialog = view.Dialog{}

	switch d.Kind {
	case view.DialogEditText:
		return c.EditText(ctx, d.TaskID, answer)
	case view.DialogEditDate:
		return c.EditDate(ctx, d.TaskID, answer)
	case view.DialogConfirmClearAll:
		return c.ClearAll(ctx, !answer.Cancelled)
	default:
		return nil
	}
}

// Confirm answers the clear-all confirmation.
func (c *Controller) Confirm(ctx context.Context, accepted bool) error {
	if c.state.Dialog.Kind != view.DialogConfirmClearAll {
		return nil
	}
	if accepted {
		return c.Resolve(ctx, model.Submitted("yes"))
	}
	return c.Resolve(ctx, model.Cancelled)
}

// Remove deletes a task.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.finish("deleting task", c.tasks.Remove(ctx, id))
}

// ClearCompleted deletes every done task.
func (c *Controller) ClearCompleted(ctx context.Context) (int, error) {
	if err := c.requireUser(); err != nil {
		return 0, err
	}
	n, err := c.tasks.ClearCompleted(ctx)
	return n, c.finish("clearing completed", err)
}

// ClearAll deletes every task when confirmed.
func (c *Controller) ClearAll(ctx context.Context, confirmed bool) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.finish("clearing tasks", c.tasks.ClearAll(ctx, confirmed))
}

// Dispatch runs a ViewModel row action. Edit actions open their dialog.
func (c *Controller) Dispatch(ctx context.Context, a view.Action) error {
	switch a.Kind {
	case view.ActionToggle:
		return c.Toggle(ctx, a.TaskID)
	case view.ActionEditText:
		return c.BeginEditText(a.TaskID)
	case view.ActionEditDate:
		return c.BeginEditDate(a.TaskID)
	case view.ActionDelete:
		return c.Remove(ctx, a.TaskID)
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
}

// SetFilter selects the visible subset. The Task Store is not touched.
func (c *Controller) SetFilter(f model.Filter) error {
	if !f.Valid() {
		return fmt.Errorf("unknown filter %q", f)
	}
	c.state.Filter = f
	return nil
}

// SetSort selects the comparator. The Task Store is not touched.
func (c *Controller) SetSort(mode model.SortMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown sort %q", mode)
	}
	c.state.Sort = mode
	return nil
}

// CycleFilter advances to the next filter.
func (c *Controller) CycleFilter() {
	c.state.Filter = next(model.Filters, c.state.Filter)
}

// CycleSort advances to the next sort mode.
func (c *Controller) CycleSort() {
	c.state.Sort = next(model.SortModes, c.state.Sort)
}

// ToggleTheme switches between light and dark and persists the choice.
func (c *Controller) ToggleTheme(ctx context.Context) error {
	return c.SetTheme(ctx, c.state.Theme.Toggle())
}

// SetTheme persists t as the theme.
func (c *Controller) SetTheme(ctx context.Context, t model.Theme) error {
	if err := c.kv.Set(ctx, store.KeyTheme, string(t)); err != nil {
		return c.finish("saving theme", err)
	}
	c.state.Theme = t
	return c.finish("", nil)
}

// Login fabricates a session for provider and switches to the task app.
func (c *Controller) Login(ctx context.Context, provider model.Provider) (model.User, error) {
	u, err := c.gate.Login(ctx, provider)
	if err != nil {
		return model.User{}, c.finish("logging in", err)
	}
	c.state.User = &u
	c.state.Dialog = view.Dialog{}
	return u, c.finish("", nil)
}

// Logout clears the session and switches to the login screen.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.gate.Logout(ctx); err != nil {
		return c.finish("logging out", err)
	}
	c.state.User = nil
	c.state.Dialog = view.Dialog{}
	return c.finish("", nil)
}

func (c *Controller) openDialog(kind view.DialogKind, id int64) error {
	if err := c.requireUser(); err != nil {
		return err
	}
	task, ok := c.tasks.Get(id)
	if !ok {
		return c.finish("opening dialog", fmt.Errorf("task %d: %w", id, tasks.ErrTaskNotFound))
	}

	initial := task.Text
	if kind == view.DialogEditDate {
		initial = task.Date
	}
	c.state.Dialog = view.Dialog{Kind: kind, TaskID: id, Initial: initial}
	return nil
}

func (c *Controller) requireUser() error {
	if c.state.User == nil {
		return session.ErrNotAuthenticated
	}
	return nil
}

// finish refreshes the rendered collection and records the outcome of
// an operation in the status line.
func (c *Controller) finish(op string, err error) error {
	c.sync()
	if err != nil {
		log.Printf("%s: %v", op, err)
		c.state.Status = fmt.Sprintf("%s: %v", op, err)
		return err
	}
	c.state.Status = ""
	return nil
}

func (c *Controller) sync() {
	c.state.Tasks = c.tasks.Tasks()
}

func next[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
