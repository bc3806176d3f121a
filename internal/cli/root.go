package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the global flags shared by every command.
type options struct {
	configPath string
	dbPath     string
	verbose    bool
}

// newRootCmd builds the command tree. Running it with no subcommand
// starts the TUI.
func newRootCmd(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "A local task list with a terminal UI",
		Long: `todo keeps a single task list on this machine.

Run it without arguments for the interactive terminal UI, or use the
subcommands to script the same operations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/todo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Database file, overrides storage.path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newDoneCmd(opts),
		newEditCmd(opts),
		newDateCmd(opts),
		newRmCmd(opts),
		newClearCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newThemeCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
