// Package view turns application state into a toolkit-independent
// ViewModel. Render is pure: it never mutates the state it is given.
package view

import (
	"sort"

	"github.com/nhle/todo/internal/model"
)

// Placeholder is shown instead of rows when the visible list is empty.
const Placeholder = "No tasks yet"

// Screen selects the top-level screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenTasks
)

// DialogKind identifies a pending request/response dialog.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogEditText
	DialogEditDate
	DialogConfirmClearAll
)

// Dialog is a pending edit or confirmation request.
type Dialog struct {
	Kind    DialogKind
	TaskID  int64
	Initial string
}

// Title returns the prompt shown for the dialog.
func (d Dialog) Title() string {
	switch d.Kind {
	case DialogEditText:
		return "Edit Task"
	case DialogEditDate:
		return "Edit Date (YYYY-MM-DD HH:MM)"
	case DialogConfirmClearAll:
		return "Clear all tasks?"
	default:
		return ""
	}
}

// State is the whole application state. It is owned by the controller.
type State struct {
	Tasks  []model.Task
	Filter model.Filter
	Sort   model.SortMode
	Theme  model.Theme
	User   *model.User
	Dialog Dialog

	// Status is a one-line message, usually the last error.
	Status string
}

// ActionKind is a row-level operation.
type ActionKind string

const (
	ActionToggle   ActionKind = "toggle"
	ActionEditText ActionKind = "edit-text"
	ActionEditDate ActionKind = "edit-date"
	ActionDelete   ActionKind = "delete"
)

// Action binds an operation to a task.
type Action struct {
	Kind   ActionKind
	TaskID int64
}

// Row is one visible task.
type Row struct {
	ID      int64
	Text    string
	Date    string
	Done    bool
	Toggle  Action
	Actions []Action
}

// Option is one button of a mutually exclusive group.
type Option struct {
	Value  string
	Label  string
	Active bool
}

// Counts summarizes the whole collection, independent of the filter.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// ViewModel is everything a platform adapter needs to draw a frame.
type ViewModel struct {
	Screen      Screen
	User        model.User
	Theme       model.Theme
	ThemeIcon   string
	Filters     []Option
	Sorts       []Option
	Rows        []Row
	Empty       bool
	Placeholder string
	Counts      Counts
	Dialog      Dialog
	DialogTitle string
	Status      string
}

// Render builds the ViewModel for s.
func Render(s State) ViewModel {
	vm := ViewModel{
		Theme:     s.Theme,
		ThemeIcon: ThemeIcon(s.Theme),
		Status:    s.Status,
	}
	if s.User == nil {
		vm.Screen = ScreenLogin
		return vm
	}

	vm.Screen = ScreenTasks
	vm.User = *s.User
	vm.Filters = filterOptions(s.Filter)
	vm.Sorts = sortOptions(s.Sort)
	vm.Counts = count(s.Tasks)
	vm.Dialog = s.Dialog
	vm.DialogTitle = s.Dialog.Title()

	visible := Visible(s.Tasks, s.Filter, s.Sort)
	if len(visible) == 0 {
		vm.Empty = true
		vm.Placeholder = Placeholder
		return vm
	}

	vm.Rows = make([]Row, len(visible))
	for i, t := range visible {
		vm.Rows[i] = Row{
			ID:     t.ID,
			Text:   t.Text,
			Date:   t.Date,
			Done:   t.Done,
			Toggle: Action{Kind: ActionToggle, TaskID: t.ID},
			Actions: []Action{
				{Kind: ActionEditText, TaskID: t.ID},
				{Kind: ActionEditDate, TaskID: t.ID},
				{Kind: ActionDelete, TaskID: t.ID},
			},
		}
	}
	return vm
}

// Visible filters tasks into a new slice and stable-sorts it. The
// input slice is never reordered.
func Visible(tasks []model.Task, f model.Filter, mode model.SortMode) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Keep(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return mode.Less(out[i], out[j])
	})
	return out
}

// ThemeIcon is the toggle label: it shows the theme a press switches to.
func ThemeIcon(t model.Theme) string {
	if t == model.ThemeDark {
		return "☀️"
	}
	return "🌙"
}

func filterOptions(active model.Filter) []Option {
	if !active.Valid() {
		active = model.FilterAll
	}
	labels := map[model.Filter]string{
		model.FilterAll:       "All",
		model.FilterActive:    "Active",
		model.FilterCompleted: "Completed",
	}
	opts := make([]Option, len(model.Filters))
	for i, f := range model.Filters {
		opts[i] = Option{Value: string(f), Label: labels[f], Active: f == active}
	}
	return opts
}

func sortOptions(active model.SortMode) []Option {
	if !active.Valid() {
		active = model.SortNewest
	}
	labels := map[model.SortMode]string{
		model.SortNewest:    "Newest",
		model.SortOldest:    "Oldest",
		model.SortCompleted: "Completed",
		model.SortActive:    "Active",
	}
	opts := make([]Option, len(model.SortModes))
	for i, m := range model.SortModes {
		opts[i] = Option{Value: string(m), Label: labels[m], Active: m == active}
	}
	return opts
}

func count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}
