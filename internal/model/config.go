package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Session backend identifiers.
const (
	SessionBackendStore   = "store"
	SessionBackendKeyring = "keyring"
)

// DefaultDateFormat renders creation dates like "3/14/2026, 9:05:00 AM".
const DefaultDateFormat = "1/2/2006, 3:04:05 PM"

// StorageConfig holds the durable key-value store settings.
type StorageConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`
}

// SessionConfig controls where the logged-in user record lives.
type SessionConfig struct {
	// Backend is "store" (the key-value table) or "keyring" (system keyring).
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is the initial theme when none has been persisted yet.
	Theme string `mapstructure:"theme" yaml:"theme"`

	// DateFormat is the Go time layout used for new task dates.
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/todo, or the working directory when the
// home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todo")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todo/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		Storage: StorageConfig{Path: filepath.Join(dir, "todo.db")},
		Session: SessionConfig{Backend: SessionBackendStore},
		Display: DisplayConfig{
			Theme:      string(ThemeLight),
			DateFormat: DefaultDateFormat,
		},
		Log: LogConfig{File: filepath.Join(dir, "todo.log")},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. Any key
// can be overridden with a TODO_ environment variable, e.g.
// TODO_STORAGE_PATH or TODO_SESSION_BACKEND.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("session.backend", defaults.Session.Backend)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.date_format", defaults.Display.DateFormat)
	v.SetDefault("log.file", defaults.Log.File)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Session.Backend {
	case SessionBackendStore, SessionBackendKeyring:
	default:
		return nil, fmt.Errorf("config %s: unknown session backend %q", path, cfg.Session.Backend)
	}
	if cfg.Display.DateFormat == "" {
		cfg.Display.DateFormat = DefaultDateFormat
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("session", cfg.Session)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
