package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(home, ".config", "todo", "todo.db")
	if cfg.Storage.Path != want {
		t.Errorf("expected db %s, got %s", want, cfg.Storage.Path)
	}
	if cfg.Session.Backend != SessionBackendStore {
		t.Errorf("expected store backend, got %q", cfg.Session.Backend)
	}
	if cfg.Display.Theme != string(ThemeLight) || cfg.Display.DateFormat != DefaultDateFormat {
		t.Errorf("unexpected display config %+v", cfg.Display)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`storage:
  path: ~/tasks.db
session:
  backend: keyring
display:
  theme: dark
  date_format: "2006-01-02 15:04"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Path != filepath.Join(home, "tasks.db") {
		t.Errorf("expected expanded path, got %s", cfg.Storage.Path)
	}
	if cfg.Session.Backend != SessionBackendKeyring {
		t.Errorf("expected keyring backend, got %q", cfg.Session.Backend)
	}
	if cfg.Display.Theme != "dark" || cfg.Display.DateFormat != "2006-01-02 15:04" {
		t.Errorf("unexpected display config %+v", cfg.Display)
	}
	// Unset keys keep their defaults.
	if cfg.Log.File != filepath.Join(home, ".config", "todo", "todo.log") {
		t.Errorf("expected default log file, got %s", cfg.Log.File)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TODO_DISPLAY_THEME", "dark")
	t.Setenv("TODO_STORAGE_PATH", "/tmp/override.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Display.Theme != "dark" {
		t.Errorf("expected env theme, got %q", cfg.Display.Theme)
	}
	if cfg.Storage.Path != "/tmp/override.db" {
		t.Errorf("expected env path, got %q", cfg.Storage.Path)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("session:\n  backend: cloud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Storage.Path = "/data/todo.db"
	cfg.Session.Backend = SessionBackendKeyring
	cfg.Display.Theme = "dark"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
}
