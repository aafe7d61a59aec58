package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/zoommark/internal/adapters/render/terminal"
	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/domain"
)

func newImageCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Inspect images",
	}

	cmd.AddCommand(newImageShowCmd(loader))

	return cmd
}

func newImageShowCmd(loader *appLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <image-id>",
		Short: "Show an image and its markers at their screen positions",
		Args:  cobra.ExactArgs(1),
		RunE: loader.run(func(cmd *cobra.Command, args []string, app *app) error {
			id := domain.ImageID(args[0])
			var overview application.ImageOverview
			load := func(ctx context.Context) (domain.Image, error) {
				var err error
				overview, err = app.service.ShowImage(ctx, id, app.viewport())
				return overview.Image, err
			}
			if _, err := runImageLoad(cmd.Context(), cmd.ErrOrStderr(), id, load); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), imageOutput(overview))
			}

			rendered, err := terminal.RenderImage(overview)
			if err != nil {
				return fmt.Errorf("render image: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the image as JSON")

	return cmd
}
