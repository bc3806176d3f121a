package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/ui/command"
	"github.com/nhle/todo/internal/ui/login"
	"github.com/nhle/todo/internal/ui/prompt"
	"github.com/nhle/todo/internal/view"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("expected app.Model, got %T", next)
	}
	return nm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = send(t, m, keyMsg(k))
	}
	return m
}

func newTestModel(t *testing.T, loggedIn bool) (Model, *Controller) {
	t.Helper()
	c, _ := newTestController(t, loggedIn)
	return New(c), c
}

func TestModelStartsOnLoginWhenLoggedOut(t *testing.T) {
	m, _ := newTestModel(t, false)
	if m.currentView != ViewLogin {
		t.Fatalf("expected login view, got %v", m.currentView)
	}

	m, _ = send(t, m, login.ChosenMsg{Provider: model.ProviderGoogle})
	if m.currentView != ViewList {
		t.Fatalf("expected list after login, got %v", m.currentView)
	}
	if m.vm.User.Provider != model.ProviderGoogle {
		t.Errorf("expected google user, got %+v", m.vm.User)
	}
}

func TestModelAddAndToggle(t *testing.T) {
	m, c := newTestModel(t, true)

	m = press(t, m, "n")
	if m.currentView != ViewAdd {
		t.Fatalf("expected add view, got %v", m.currentView)
	}
	m = press(t, m, "Buy milk", "enter")

	tasks := c.State().Tasks
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" {
		t.Fatalf("expected one task, got %+v", tasks)
	}
	if m.addInput.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.addInput.Value())
	}

	// Keys are typed into the form until esc leaves it.
	m = press(t, m, "x")
	if c.State().Tasks[0].Done {
		t.Fatal("x in the add form must not toggle")
	}
	m = press(t, m, "esc", "x")
	if m.currentView != ViewList {
		t.Fatalf("expected list view, got %v", m.currentView)
	}
	if !c.State().Tasks[0].Done {
		t.Error("expected x to toggle the selected task")
	}
}

func TestModelEditDialog(t *testing.T) {
	m, c := newTestModel(t, true)
	submit(t, c, "Buy milk")
	m.refresh()

	m = press(t, m, "e")
	if m.currentView != ViewDialog || !m.dialog.Active() {
		t.Fatalf("expected open dialog, got view %v", m.currentView)
	}
	if got := c.Render().Dialog.Kind; got != view.DialogEditText {
		t.Fatalf("expected edit-text dialog, got %v", got)
	}

	m, _ = send(t, m, prompt.AnswerMsg{Result: model.Submitted("Buy oat milk")})
	if m.currentView != ViewList {
		t.Errorf("expected list after answer, got %v", m.currentView)
	}
	if got := c.State().Tasks[0].Text; got != "Buy oat milk" {
		t.Errorf("expected edited text, got %q", got)
	}

	m = press(t, m, "e")
	if m.currentView != ViewDialog || !m.dialog.Active() {
		t.Fatalf("expected dialog to reopen, got view %v", m.currentView)
	}
	m, _ = send(t, m, prompt.AnswerMsg{Result: model.Submitted("")})
	if n := len(c.State().Tasks); n != 0 {
		t.Errorf("expected empty answer to delete, %d left", n)
	}
	if !m.vm.Empty {
		t.Error("expected placeholder state")
	}
}

func TestModelClearAllDismissKeepsTasks(t *testing.T) {
	m, c := newTestModel(t, true)
	submit(t, c, "a")
	submit(t, c, "b")
	m.refresh()

	m = press(t, m, "X")
	if m.currentView != ViewDialog {
		t.Fatalf("expected confirm dialog, got %v", m.currentView)
	}
	m = press(t, m, "esc")
	if m.currentView != ViewList || m.dialog.Active() {
		t.Errorf("expected dialog closed, got view %v", m.currentView)
	}
	if n := len(c.State().Tasks); n != 2 {
		t.Fatalf("expected tasks kept, got %d", n)
	}

	m = press(t, m, "X")
	if m.currentView != ViewDialog || !m.dialog.Active() {
		t.Fatalf("expected confirm dialog to reopen, got view %v", m.currentView)
	}
	m, _ = send(t, m, prompt.ConfirmMsg{Accepted: true})
	if m.dialog.Active() {
		t.Error("expected dialog closed after confirming")
	}
	if n := len(c.State().Tasks); n != 0 {
		t.Errorf("expected tasks cleared, got %d", n)
	}
}

func TestModelFilterThemeAndLogout(t *testing.T) {
	m, c := newTestModel(t, true)
	a := submit(t, c, "a")
	submit(t, c, "b")
	if err := c.Toggle(t.Context(), a.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	m.refresh()

	m = press(t, m, "3")
	if len(m.vm.Rows) != 1 || m.vm.Rows[0].ID != a.ID {
		t.Errorf("expected only completed row, got %+v", m.vm.Rows)
	}
	m = press(t, m, "f")
	if c.State().Filter != model.FilterAll {
		t.Errorf("expected filter to wrap to all, got %s", c.State().Filter)
	}

	m = press(t, m, "T")
	if m.styles.Theme != model.ThemeDark {
		t.Errorf("expected dark styles, got %s", m.styles.Theme)
	}

	m = press(t, m, "L")
	if m.currentView != ViewLogin || !m.loginView.Active() {
		t.Errorf("expected login picker after logout, got %v", m.currentView)
	}
}

func TestModelCommandPalette(t *testing.T) {
	m, c := newTestModel(t, true)

	m = press(t, m, ":")
	if m.currentView != ViewCommand {
		t.Fatalf("expected command view, got %v", m.currentView)
	}
	m, _ = send(t, m, command.CommandMsg("add Walk dog"))
	if m.currentView != ViewList {
		t.Errorf("expected list after command, got %v", m.currentView)
	}
	if tasks := c.State().Tasks; len(tasks) != 1 || tasks[0].Text != "Walk dog" {
		t.Errorf("expected task from palette, got %+v", tasks)
	}

	m, _ = send(t, m, command.CommandMsg("sort sideways"))
	if m.message == "" {
		t.Error("expected parse error in status line")
	}

	m.message = ""
	m, _ = send(t, m, command.CommandMsg("theme blue"))
	if m.message == "" || c.State().Theme != model.ThemeLight {
		t.Errorf("expected unknown theme rejected, got message %q theme %s", m.message, c.State().Theme)
	}

	m, _ = send(t, m, command.CommandMsg("sort oldest"))
	if c.State().Sort != model.SortOldest {
		t.Errorf("expected oldest sort, got %s", c.State().Sort)
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, true)

	_, cmd := send(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelViewShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, true)
	if got := m.View(); got != "Loading..." {
		t.Errorf("expected loading before size, got %q", got)
	}

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	for _, want := range []string{"Todo", "Demo User", "avatar: https://i.pravatar.cc/150?u=demo", "No tasks yet", "Filter:", "Sort:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
