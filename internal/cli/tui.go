package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/app"
)

func runTUI(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so the standard logger goes to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(cfg.Log.File, "todo")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	e, err := openEnv(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	log.Printf("starting tui (db %s, session backend %s)", e.cfg.Storage.Path, e.cfg.Session.Backend)

	p := tea.NewProgram(app.New(e.ctrl), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
