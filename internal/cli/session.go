package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/model"
)

func newLoginCmd(opts *options) *cobra.Command {
	names := make([]string, len(model.Providers))
	for i, p := range model.Providers {
		names[i] = string(p)
	}

	return &cobra.Command{
		Use:       "login PROVIDER",
		Short:     "Start a local session (" + strings.Join(names, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				u, err := e.ctrl.Login(ctx, model.Provider(strings.ToLower(args[0])))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", u.Name, u.ID)
				return nil
			})
		},
	}
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				if err := e.ctrl.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				out := cmd.OutOrStdout()
				if !e.ctrl.Authenticated() {
					fmt.Fprintln(out, "Not logged in")
					return nil
				}
				u := e.ctrl.State().User
				fmt.Fprintf(out, "%s\n  id:       %s\n  provider: %s\n  avatar:   %s\n", u.Name, u.ID, u.Provider, u.Avatar)
				return nil
			})
		},
	}
}

func newThemeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, e *env) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					fmt.Fprintln(out, e.ctrl.Render().Theme)
					return nil
				}

				t := model.Theme(strings.ToLower(args[0]))
				if t != model.ThemeLight && t != model.ThemeDark {
					return fmt.Errorf("unknown theme %q", args[0])
				}
				if err := e.ctrl.SetTheme(ctx, t); err != nil {
					return err
				}
				fmt.Fprintln(out, t)
				return nil
			})
		},
	}
}
