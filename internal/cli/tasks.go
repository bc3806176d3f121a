package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/view"
)

// withEnv opens the environment for the duration of fn.
func withEnv(cmd *cobra.Command, opts *options, fn func(ctx context.Context, e *env) error) error {
	setupCLILogging(opts.verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	e, err := openEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				task, added, err := e.ctrl.Submit(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				if !added {
					return fmt.Errorf("task text is empty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", task.ID, task.Text)
				return nil
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var filter, sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				if err := e.ctrl.SetFilter(model.Filter(filter)); err != nil {
					return err
				}
				if err := e.ctrl.SetSort(model.SortMode(sort)); err != nil {
					return err
				}
				renderList(cmd.OutOrStdout(), e.ctrl.Render())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(model.FilterAll), "all, active or completed")
	cmd.Flags().StringVar(&sort, "sort", string(model.SortNewest), "newest, oldest, completed or active")
	return cmd
}

func renderList(w io.Writer, vm view.ViewModel) {
	if vm.Empty {
		fmt.Fprintln(w, vm.Placeholder)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "TEXT", "DATE")
	for _, r := range vm.Rows {
		done := " "
		if r.Done {
			done = "x"
		}
		t.Row(strconv.FormatInt(r.ID, 10), done, r.Text, r.Date)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d left, %d done\n", vm.Counts.Active, vm.Counts.Completed)
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				return e.ctrl.Toggle(ctx, id)
			})
		},
	}
}

func newDoneCmd(opts *options) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task done, or not done with --undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				return e.ctrl.SetDone(ctx, id, !undo)
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task not done")
	return cmd
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace a task's text; empty text deletes it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				return e.ctrl.EditText(ctx, id, model.Submitted(text))
			})
		},
	}
}

func newDateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "date ID VALUE...",
		Short: "Replace a task's date string",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			value := strings.Join(args[1:], " ")
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				return e.ctrl.EditDate(ctx, id, model.Submitted(value))
			})
		},
	}
}

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				return e.ctrl.Remove(ctx, id)
			})
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	var all, yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete completed tasks, or every task with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				out := cmd.OutOrStdout()
				if !all {
					n, err := e.ctrl.ClearCompleted(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d completed tasks\n", n)
					return nil
				}

				if !yes {
					fmt.Fprintln(out, "Clear all tasks? Pass --yes to confirm.")
					return nil
				}
				if err := e.ctrl.ClearAll(ctx, true); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared all tasks")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every task")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm --all")
	return cmd
}
