package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Verb names a palette command.
type Verb string

const (
	VerbAdd            Verb = "add"
	VerbClearCompleted Verb = "clear completed"
	VerbClearAll       Verb = "clear all"
	VerbFilter         Verb = "filter"
	VerbSort           Verb = "sort"
	VerbTheme          Verb = "theme"
	VerbLogout         Verb = "logout"
	VerbHelp           Verb = "help"
	VerbQuit           Verb = "quit"
)

// Command is a parsed palette line.
type Command struct {
	Verb Verb
	Arg  string
}

// Parse turns a palette line into a Command. Argument values are
// validated where the set is closed.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	head := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch head {
	case "add", "new":
		if rest == "" {
			return Command{}, fmt.Errorf("add: missing task text")
		}
		return Command{Verb: VerbAdd, Arg: rest}, nil

	case "clear":
		switch strings.ToLower(rest) {
		case "", "completed", "done":
			return Command{Verb: VerbClearCompleted}, nil
		case "all":
			return Command{Verb: VerbClearAll}, nil
		}
		return Command{}, fmt.Errorf("clear: expected completed or all, got %q", rest)

	case "filter":
		f := model.Filter(strings.ToLower(rest))
		if !f.Valid() {
			return Command{}, fmt.Errorf("filter: unknown filter %q", rest)
		}
		return Command{Verb: VerbFilter, Arg: string(f)}, nil

	case "sort":
		s := model.SortMode(strings.ToLower(rest))
		if !s.Valid() {
			return Command{}, fmt.Errorf("sort: unknown sort %q", rest)
		}
		return Command{Verb: VerbSort, Arg: string(s)}, nil

	case "theme":
		switch strings.ToLower(rest) {
		case "", string(model.ThemeLight), string(model.ThemeDark):
			return Command{Verb: VerbTheme, Arg: strings.ToLower(rest)}, nil
		}
		return Command{}, fmt.Errorf("theme: expected light or dark, got %q", rest)

	case "logout":
		return Command{Verb: VerbLogout}, nil
	case "help":
		return Command{Verb: VerbHelp}, nil
	case "quit", "q", "exit":
		return Command{Verb: VerbQuit}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	styles theme.Styles
	width  int
	height int
}

// New creates a new command palette model.
func New(styles theme.Styles, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "clear completed, filter active, sort oldest, theme dark..."
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{
		input:  ti,
		styles: styles,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, func() tea.Msg { return CancelMsg{} }
		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1).
		Render("Command Palette")

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View())

	return m.styles.Dialog.
		Width(m.width - 4).
		Render(content)
}

// SetStyles switches the palette used for rendering.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
