// Package prompt renders the edit and confirmation dialogs with huh and
// reports the outcome as a message. Dismissing a dialog and submitting
// an empty value are reported differently.
package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
	"github.com/nhle/todo/internal/view"
)

// AnswerMsg is dispatched when an edit dialog closes.
type AnswerMsg struct {
	Result model.PromptResult
}

// ConfirmMsg is dispatched when the clear-all confirmation closes.
type ConfirmMsg struct {
	Accepted bool
}

// bindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type bindings struct {
	value    string
	accepted bool
}

// Model is the Bubble Tea model for a pending dialog.
type Model struct {
	form   *huh.Form
	b      *bindings
	kind   view.DialogKind
	styles theme.Styles
	width  int
	height int
}

// New creates an idle dialog model.
func New(styles theme.Styles, width, height int) Model {
	return Model{
		b:      &bindings{},
		styles: styles,
		width:  width,
		height: height,
	}
}

// Open builds the form for d. The input starts with d.Initial.
func (m *Model) Open(d view.Dialog) tea.Cmd {
	m.kind = d.Kind
	m.b.value = d.Initial
	m.b.accepted = false

	switch d.Kind {
	case view.DialogEditText, view.DialogEditDate:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title(d.Title()).
				Value(&m.b.value),
		))
	case view.DialogConfirmClearAll:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(d.Title()).
				Affirmative("OK").
				Negative("Cancel").
				Value(&m.b.accepted),
		))
	default:
		m.form = nil
		return nil
	}

	m.form = m.form.
		WithShowHelp(false).
		WithWidth(m.formWidth())
	return m.form.Init()
}

// Active reports whether a dialog is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Close drops the open form without reporting an outcome.
func (m *Model) Close() {
	m.form = nil
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.outcome(false)
	case huh.StateAborted:
		m.form = nil
		return m, m.outcome(true)
	}
	return m, cmd
}

func (m Model) outcome(aborted bool) tea.Cmd {
	if m.kind == view.DialogConfirmClearAll {
		accepted := !aborted && m.b.accepted
		return func() tea.Msg { return ConfirmMsg{Accepted: accepted} }
	}

	result := model.Cancelled
	if !aborted {
		result = model.Submitted(m.b.value)
	}
	return func() tea.Msg { return AnswerMsg{Result: result} }
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return m.styles.Dialog.Render(m.form.View())
}

// SetStyles switches the palette used for rendering.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}
