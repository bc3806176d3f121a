package cli

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// run executes the command tree against a database in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", dir)

	cmd := newRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "todo.db"),
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("todo %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

var addedID = regexp.MustCompile(`Added (\d+):`)

func TestCommandsRequireLogin(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "add", "Buy milk"); err == nil {
		t.Fatal("expected add to fail without a session")
	}
	if out := mustRun(t, dir, "whoami"); !strings.Contains(out, "Not logged in") {
		t.Errorf("unexpected whoami output %q", out)
	}
}

func TestLoginAddListClear(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "login", "demo")
	if !strings.Contains(out, "Demo User") {
		t.Errorf("unexpected login output %q", out)
	}
	if out := mustRun(t, dir, "whoami"); !strings.Contains(out, "provider: demo") {
		t.Errorf("unexpected whoami output %q", out)
	}

	out = mustRun(t, dir, "add", "Buy", "milk")
	m := addedID.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected added id in %q", out)
	}
	id := m[1]
	mustRun(t, dir, "add", "Walk dog")

	out = mustRun(t, dir, "list")
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "Walk dog") {
		t.Errorf("expected both tasks in list:\n%s", out)
	}

	mustRun(t, dir, "toggle", id)
	out = mustRun(t, dir, "list", "--filter", "completed")
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Walk dog") {
		t.Errorf("expected only the completed task:\n%s", out)
	}

	mustRun(t, dir, "date", id, "2026-02-01", "08:30")
	if out := mustRun(t, dir, "list"); !strings.Contains(out, "2026-02-01 08:30") {
		t.Errorf("expected new date in list:\n%s", out)
	}

	if out := mustRun(t, dir, "clear"); !strings.Contains(out, "Cleared 1 completed") {
		t.Errorf("unexpected clear output %q", out)
	}

	if out := mustRun(t, dir, "clear", "--all"); !strings.Contains(out, "--yes") {
		t.Errorf("expected confirmation hint, got %q", out)
	}
	if out := mustRun(t, dir, "list"); !strings.Contains(out, "Walk dog") {
		t.Errorf("unconfirmed clear removed tasks:\n%s", out)
	}

	mustRun(t, dir, "clear", "--all", "--yes")
	if out := mustRun(t, dir, "list"); !strings.Contains(out, "No tasks yet") {
		t.Errorf("expected placeholder after clear all:\n%s", out)
	}
}

func TestEditAndRemove(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "login", "google")

	id := addedID.FindStringSubmatch(mustRun(t, dir, "add", "Buy milk"))[1]

	mustRun(t, dir, "edit", id, "Buy", "oat", "milk")
	if out := mustRun(t, dir, "list"); !strings.Contains(out, "Buy oat milk") {
		t.Errorf("expected edited text:\n%s", out)
	}

	mustRun(t, dir, "done", id)
	if out := mustRun(t, dir, "list", "--filter", "completed"); !strings.Contains(out, "Buy oat milk") {
		t.Errorf("expected task marked done:\n%s", out)
	}
	mustRun(t, dir, "done", id)
	mustRun(t, dir, "done", "--undo", id)
	if out := mustRun(t, dir, "list", "--filter", "active"); !strings.Contains(out, "Buy oat milk") {
		t.Errorf("expected task marked not done:\n%s", out)
	}

	mustRun(t, dir, "rm", id)
	if out := mustRun(t, dir, "list"); !strings.Contains(out, "No tasks yet") {
		t.Errorf("expected empty list:\n%s", out)
	}

	if _, err := run(t, dir, "rm", id); err == nil {
		t.Error("expected error removing unknown task")
	}
	if _, err := run(t, dir, "toggle", "abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestThemeAndLogout(t *testing.T) {
	dir := t.TempDir()

	if out := strings.TrimSpace(mustRun(t, dir, "theme")); out != "light" {
		t.Errorf("expected default light, got %q", out)
	}
	mustRun(t, dir, "theme", "dark")
	if out := strings.TrimSpace(mustRun(t, dir, "theme")); out != "dark" {
		t.Errorf("expected dark, got %q", out)
	}
	if _, err := run(t, dir, "theme", "blue"); err == nil {
		t.Error("expected error for unknown theme")
	}

	mustRun(t, dir, "login", "facebook")
	mustRun(t, dir, "logout")
	if out := mustRun(t, dir, "whoami"); !strings.Contains(out, "Not logged in") {
		t.Errorf("expected logged out, got %q", out)
	}
}

func TestLoginUnknownProvider(t *testing.T) {
	if _, err := run(t, t.TempDir(), "login", "myspace"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "config", "init")
	if !strings.Contains(out, "config.yaml") {
		t.Errorf("unexpected init output %q", out)
	}
	if _, err := run(t, dir, "config", "init"); err == nil {
		t.Error("expected init to refuse overwriting")
	}
	mustRun(t, dir, "config", "init", "--force")

	out = mustRun(t, dir, "config", "show")
	for _, want := range []string{"backend: store", "theme: light", filepath.Join(dir, "todo.db")} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
