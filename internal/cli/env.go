package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/nhle/todo/internal/app"
	"github.com/nhle/todo/internal/credential"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/session"
	"github.com/nhle/todo/internal/store"
	"github.com/nhle/todo/internal/tasks"
)

// env is everything a command needs, opened from the config.
type env struct {
	cfg   *model.AppConfig
	store *store.SQLiteStore
	ctrl  *app.Controller
}

// configPath returns the --config value or the default path.
func configPath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return model.DefaultConfigPath()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *options) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath(opts))
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Storage.Path = opts.dbPath
	}
	return cfg, nil
}

// openEnv opens storage and builds the controller.
func openEnv(ctx context.Context, cfg *model.AppConfig) (*env, error) {
	s, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	users, err := userStore(cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	ts := tasks.New(s, tasks.WithDateFormat(cfg.Display.DateFormat))
	gate := session.NewGate(users, session.NewStubProvider())
	ctrl, err := app.NewController(ctx, s, ts, gate, model.ParseTheme(cfg.Display.Theme))
	if err != nil {
		s.Close()
		return nil, err
	}

	return &env{cfg: cfg, store: s, ctrl: ctrl}, nil
}

// userStore selects where the session record lives.
func userStore(cfg *model.AppConfig, s store.Store) (session.UserStore, error) {
	switch cfg.Session.Backend {
	case model.SessionBackendKeyring:
		dir := filepath.Dir(cfg.Storage.Path)
		ring, err := credential.Open(dir)
		if err != nil {
			return nil, err
		}
		return credential.NewVault(ring), nil
	case model.SessionBackendStore, "":
		return session.NewKVUsers(s), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func (e *env) Close() error {
	return e.store.Close()
}

// setupCLILogging sends the standard logger to stderr when verbose, and
// discards it otherwise.
func setupCLILogging(verbose bool) {
	log.SetFlags(log.LstdFlags)
	if verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}
