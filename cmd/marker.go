package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/zoommark/internal/adapters/render/terminal"
	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
)

func newMarkerCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marker",
		Short: "Inspect and place markers",
	}

	cmd.AddCommand(
		newMarkerShowCmd(loader),
		newMarkerAddCmd(loader),
	)

	return cmd
}

func newMarkerShowCmd(loader *appLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <marker-id>",
		Short: "Show a marker's description and chat",
		Args:  cobra.ExactArgs(1),
		RunE: loader.run(func(cmd *cobra.Command, args []string, app *app) error {
			id := domain.MarkerID(args[0])
			detail, err := app.service.ShowMarker(cmd.Context(), id)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), markerDetailOutput(id, detail))
			}

			rendered, err := terminal.RenderMarkerDetail(id, detail)
			if err != nil {
				return fmt.Errorf("render marker: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the marker as JSON")

	return cmd
}

func newMarkerAddCmd(loader *appLoader) *cobra.Command {
	var (
		x, y        float64
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <image-id>",
		Short: "Place a marker at a normalized image position",
		Args:  cobra.ExactArgs(1),
		RunE: loader.run(func(cmd *cobra.Command, args []string, app *app) error {
			created, err := app.service.AddMarker(cmd.Context(), application.AddMarkerCommand{
				ImageID:     domain.ImageID(args[0]),
				Point:       geometry.Point{X: x, Y: y},
				Title:       title,
				Description: description,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created marker %s %q at (%.4f, %.4f)\n", created.ID, created.Title, created.X, created.Y)
			return err
		}),
	}
	cmd.Flags().Float64Var(&x, "x", 0, "Horizontal position as a fraction of the image width")
	cmd.Flags().Float64Var(&y, "y", 0, "Vertical position as a fraction of the image height")
	cmd.Flags().StringVar(&title, "title", "", "Marker title")
	cmd.Flags().StringVar(&description, "description", "", "Marker description")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
