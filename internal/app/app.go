package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/keys"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
	"github.com/nhle/todo/internal/ui"
	"github.com/nhle/todo/internal/ui/command"
	helpview "github.com/nhle/todo/internal/ui/help"
	"github.com/nhle/todo/internal/ui/login"
	"github.com/nhle/todo/internal/ui/prompt"
	"github.com/nhle/todo/internal/ui/tasklist"
	"github.com/nhle/todo/internal/view"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewList
	ViewAdd
	ViewDialog
	ViewHelp
	ViewCommand
)

// chromeHeight is the number of content lines above the task list:
// the account line, the filter/sort bar and the add input.
const chromeHeight = 3

// Model is the root Bubble Tea model. It routes keys to the active
// view and forwards every intent to the Controller, then re-renders
// from the Controller's ViewModel.
type Model struct {
	ctrl         *Controller
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	styles       theme.Styles
	keys         *keys.KeyMap
	vm           view.ViewModel
	addInput     textinput.Model
	taskList     tasklist.Model
	dialog       prompt.Model
	loginView    login.Model
	helpView     helpview.Model
	commandView  command.Model
	message      string
	ready        bool
}

// New creates the root model over ctrl.
func New(ctrl *Controller) Model {
	vm := ctrl.Render()
	styles := theme.For(vm.Theme)
	k := keys.DefaultKeyMap()

	in := textinput.New()
	in.Placeholder = "What needs to be done?"
	in.Prompt = "+ "
	in.Width = 76

	m := Model{
		ctrl:        ctrl,
		layout:      ui.NewLayout(80, 24, styles),
		styles:      styles,
		keys:        k,
		addInput:    in,
		taskList:    tasklist.New(styles, 80, 24-2-chromeHeight),
		dialog:      prompt.New(styles, 80, 24),
		loginView:   login.New(styles, 80, 22),
		helpView:    helpview.New(k, styles, 80, 22),
		commandView: command.New(styles, 80, 22),
	}

	if vm.Screen == view.ScreenLogin {
		m.currentView = ViewLogin
		m.loginView.Reset()
	} else {
		m.currentView = ViewList
	}
	m.refresh()
	return m
}

// Init returns the initial command of the first screen.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	return nil
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height, m.styles)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.addInput.Width = w - 4
		m.taskList.SetSize(w, h-chromeHeight)
		m.dialog.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case login.ChosenMsg:
		_, err := m.ctrl.Login(ctx, msg.Provider)
		return m, m.after(err)

	case login.AbortMsg:
		return m, tea.Quit

	case prompt.AnswerMsg:
		m.dialog.Close()
		m.currentView = ViewList
		return m, m.after(m.ctrl.Resolve(ctx, msg.Result))

	case prompt.ConfirmMsg:
		m.dialog.Close()
		m.currentView = ViewList
		return m, m.after(m.ctrl.Confirm(ctx, msg.Accepted))

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(ctx, string(msg))

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(ctx, msg)
	}

	return m.updateActiveView(msg)
}

func (m Model) handleKey(ctx context.Context, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.message = ""

	switch m.currentView {
	case ViewLogin:
		if msg.String() == "esc" {
			return m, tea.Quit
		}
		return m.updateActiveView(msg)

	case ViewAdd:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.addInput.Blur()
			m.currentView = ViewList
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			_, _, err := m.ctrl.Submit(ctx, m.addInput.Value())
			m.addInput.Reset()
			return m, m.after(err)
		}
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		return m, cmd

	case ViewDialog:
		// huh only aborts on ctrl+c, so esc dismisses here.
		if key.Matches(msg, m.keys.Back) {
			m.dialog.Close()
			m.currentView = ViewList
			return m, m.after(m.ctrl.Resolve(ctx, model.Cancelled))
		}
		return m.updateActiveView(msg)

	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case ViewCommand:
		return m.updateActiveView(msg)
	}

	return m.handleListKey(ctx, msg)
}

func (m Model) handleListKey(ctx context.Context, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, hasRow := m.taskList.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Add):
		m.currentView = ViewAdd
		return m, m.addInput.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if hasRow {
			return m, m.after(m.ctrl.Dispatch(ctx, row.Toggle))
		}
		return m, nil

	case key.Matches(msg, m.keys.EditText):
		return m, m.rowAction(ctx, row, hasRow, view.ActionEditText)

	case key.Matches(msg, m.keys.EditDate):
		return m, m.rowAction(ctx, row, hasRow, view.ActionEditDate)

	case key.Matches(msg, m.keys.Delete):
		return m, m.rowAction(ctx, row, hasRow, view.ActionDelete)

	case key.Matches(msg, m.keys.ClearCompleted):
		_, err := m.ctrl.ClearCompleted(ctx)
		return m, m.after(err)

	case key.Matches(msg, m.keys.ClearAll):
		return m, m.after(m.ctrl.BeginClearAll())

	case key.Matches(msg, m.keys.FilterAll):
		return m, m.after(m.ctrl.SetFilter(model.FilterAll))

	case key.Matches(msg, m.keys.FilterActive):
		return m, m.after(m.ctrl.SetFilter(model.FilterActive))

	case key.Matches(msg, m.keys.FilterCompleted):
		return m, m.after(m.ctrl.SetFilter(model.FilterCompleted))

	case key.Matches(msg, m.keys.CycleFilter):
		m.ctrl.CycleFilter()
		return m, m.after(nil)

	case key.Matches(msg, m.keys.CycleSort):
		m.ctrl.CycleSort()
		return m, m.after(nil)

	case key.Matches(msg, m.keys.Theme):
		return m, m.after(m.ctrl.ToggleTheme(ctx))

	case key.Matches(msg, m.keys.Logout):
		return m, m.after(m.ctrl.Logout(ctx))
	}

	// Delegate to the list for navigation keys.
	return m.updateActiveView(msg)
}

// rowAction dispatches the row action of the given kind for the
// selected row.
func (m *Model) rowAction(ctx context.Context, row view.Row, ok bool, kind view.ActionKind) tea.Cmd {
	if !ok {
		return nil
	}
	for _, a := range row.Actions {
		if a.Kind == kind {
			return m.after(m.ctrl.Dispatch(ctx, a))
		}
	}
	return nil
}

// executeCommand handles a line from the command palette.
func (m *Model) executeCommand(ctx context.Context, line string) tea.Cmd {
	cmd, err := command.Parse(line)
	if err != nil {
		m.message = err.Error()
		return nil
	}

	switch cmd.Verb {
	case command.VerbAdd:
		_, _, err = m.ctrl.Submit(ctx, cmd.Arg)
	case command.VerbClearCompleted:
		_, err = m.ctrl.ClearCompleted(ctx)
	case command.VerbClearAll:
		err = m.ctrl.BeginClearAll()
	case command.VerbFilter:
		err = m.ctrl.SetFilter(model.Filter(cmd.Arg))
	case command.VerbSort:
		err = m.ctrl.SetSort(model.SortMode(cmd.Arg))
	case command.VerbTheme:
		if cmd.Arg == "" {
			err = m.ctrl.ToggleTheme(ctx)
		} else {
			err = m.ctrl.SetTheme(ctx, model.Theme(cmd.Arg))
		}
	case command.VerbLogout:
		err = m.ctrl.Logout(ctx)
	case command.VerbHelp:
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case command.VerbQuit:
		return tea.Quit
	}
	return m.after(err)
}

// after re-renders from the controller once an intent has run. The
// error has already been logged and surfaced in the status line by the
// controller.
func (m *Model) after(_ error) tea.Cmd {
	return m.refresh()
}

// refresh pulls a fresh ViewModel and moves between screens and
// dialogs as it requires.
func (m *Model) refresh() tea.Cmd {
	vm := m.ctrl.Render()
	m.vm = vm
	if vm.Theme != m.styles.Theme {
		m.applyStyles(theme.For(vm.Theme))
	}

	if vm.Screen == view.ScreenLogin {
		if m.currentView == ViewLogin && m.loginView.Active() {
			return nil
		}
		m.currentView = ViewLogin
		m.addInput.Blur()
		m.addInput.Reset()
		return m.loginView.Reset()
	}
	if m.currentView == ViewLogin {
		m.currentView = ViewList
	}

	cmd := m.taskList.SetRows(vm.Rows, view.Placeholder)
	if vm.Dialog.Kind != view.DialogNone && !m.dialog.Active() {
		m.currentView = ViewDialog
		return tea.Batch(cmd, m.dialog.Open(vm.Dialog))
	}
	return cmd
}

func (m *Model) applyStyles(s theme.Styles) {
	m.styles = s
	m.layout.Styles = s
	m.taskList.SetStyles(s)
	m.dialog.SetStyles(s)
	m.loginView.SetStyles(s)
	m.helpView.SetStyles(s)
	m.commandView.SetStyles(s)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewAdd:
		m.addInput, cmd = m.addInput.Update(msg)
	case ViewDialog:
		m.dialog, cmd = m.dialog.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Todo", m.sessionSummary())
	content := m.renderContent()
	status := m.message
	if status == "" {
		status = m.vm.Status
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints(), status)

	content = lipgloss.NewStyle().
		Height(m.layout.ContentHeight()).
		MaxHeight(m.layout.ContentHeight()).
		Render(content)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewDialog:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderBars(), m.dialog.View())
	default:
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderAccount(),
			m.renderBars(),
			m.addInput.View(),
			m.taskList.View(),
		)
	}
}

// renderBars draws the filter and sort option groups with counts.
func (m Model) renderBars() string {
	group := func(label string, opts []view.Option) string {
		parts := []string{label}
		for _, o := range opts {
			if o.Active {
				parts = append(parts, m.styles.OptionActive.Render("["+o.Label+"]"))
			} else {
				parts = append(parts, m.styles.OptionInactive.Render(o.Label))
			}
		}
		return strings.Join(parts, "")
	}

	c := m.vm.Counts
	counts := m.styles.Help.Render(fmt.Sprintf("  %d left, %d done", c.Active, c.Completed))
	return group("Filter:", m.vm.Filters) + "  " + group("Sort:", m.vm.Sorts) + counts
}

// renderAccount draws the signed-in user's avatar link.
func (m Model) renderAccount() string {
	u := m.vm.User
	return m.styles.Help.
		MaxWidth(m.layout.ContentWidth()).
		Render(fmt.Sprintf("%s  avatar: %s", u.Name, u.Avatar))
}

// sessionSummary returns the header's right side: user and theme icon.
func (m Model) sessionSummary() string {
	if m.vm.Screen == view.ScreenLogin {
		return m.vm.ThemeIcon
	}
	return fmt.Sprintf("%s (%s)  %s", m.vm.User.Name, m.vm.User.Provider, m.vm.ThemeIcon)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter sign in | esc quit"
	case ViewAdd:
		return "enter add | esc back"
	case ViewDialog:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	default:
		return m.helpView.ShortView()
	}
}
