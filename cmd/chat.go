package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/domain"
)

func newChatCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk about a marker",
	}

	cmd.AddCommand(newChatPostCmd(loader))

	return cmd
}

func newChatPostCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "post <marker-id> <text>",
		Short: "Post a chat message under your display name",
		Args:  cobra.MinimumNArgs(2),
		RunE: loader.run(func(cmd *cobra.Command, args []string, app *app) error {
			msg, err := app.service.PostChat(cmd.Context(), application.PostChatCommand{
				MarkerID: domain.MarkerID(args[0]),
				Text:     strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg.User, msg.Text)
			return err
		}),
	}
}
