package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/zoommark/internal/adapters/render/terminal"
)

func newGalleryCmd(loader *appLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List images available for annotation",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, _ []string, app *app) error {
			entries, err := app.gallery.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), galleryOutput(entries))
			}

			rendered, err := terminal.RenderGallery(entries)
			if err != nil {
				return fmt.Errorf("render gallery: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the gallery as JSON")

	return cmd
}
