package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
)

// ChosenMsg is dispatched when a provider is picked.
type ChosenMsg struct {
	Provider model.Provider
}

// AbortMsg is dispatched when the login screen is dismissed.
type AbortMsg struct{}

var labels = map[model.Provider]string{
	model.ProviderFacebook: "Continue with Facebook",
	model.ProviderGoogle:   "Continue with Google",
	model.ProviderDemo:     "Try the demo",
}

type bindings struct {
	provider model.Provider
}

// Model is the login screen.
type Model struct {
	form   *huh.Form
	b      *bindings
	styles theme.Styles
	width  int
	height int
}

// New creates the login screen.
func New(styles theme.Styles, width, height int) Model {
	return Model{
		b:      &bindings{provider: model.ProviderDemo},
		styles: styles,
		width:  width,
		height: height,
	}
}

// Reset rebuilds the provider picker, e.g. after a logout.
func (m *Model) Reset() tea.Cmd {
	opts := make([]huh.Option[model.Provider], len(model.Providers))
	for i, p := range model.Providers {
		opts[i] = huh.NewOption(labels[p], p)
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[model.Provider]().
			Title("Sign in").
			Description("No account needed. Nothing leaves this machine.").
			Options(opts...).
			Value(&m.b.provider),
	)).WithShowHelp(false)
	return m.form.Init()
}

// Init returns the picker's initial command.
func (m Model) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// Active reports whether the picker is showing.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the login screen.
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
		p := m.b.provider
		m.form = nil
		return m, func() tea.Msg { return ChosenMsg{Provider: p} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return AbortMsg{} }
	}
	return m, cmd
}

// View renders the login screen centered in the content area.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		m.styles.Dialog.Render(m.form.View()),
	)
}

// SetStyles switches the palette used for rendering.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
}

// SetSize updates the login screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
