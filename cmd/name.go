package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNameCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name",
		Short: "Manage the display name used for markers and chat",
	}

	cmd.AddCommand(
		newNameShowCmd(loader),
		newNameSetCmd(loader),
		newNameClearCmd(loader),
	)

	return cmd
}

func newNameShowCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored display name",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, _ []string, app *app) error {
			name, ok, err := app.names.Current(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No display name set.")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		}),
	}
}

func newNameSetCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store the display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: loader.run(func(cmd *cobra.Command, args []string, app *app) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if err := app.names.Set(cmd.Context(), name); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "display name set to %s\n", name)
			return err
		}),
	}
}

func newNameClearCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored display name",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, _ []string, app *app) error {
			if err := app.names.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "display name cleared")
			return err
		}),
	}
}
