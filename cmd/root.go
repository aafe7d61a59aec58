package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	loader := &appLoader{}

	rootCmd := &cobra.Command{
		Use:           "zm",
		Short:         "zoommark (zm): annotate deep-zoom images from the terminal",
		Long:          "zm browses a zoommark gallery, places markers on deep-zoom images and follows the chat attached to each marker.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&loader.configFile, "config", "", "config file (default $HOME/.config/zoommark/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&loader.verbose, "verbose", "v", false, "mirror logs to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGalleryCmd(loader),
		newImageCmd(loader),
		newMarkerCmd(loader),
		newChatCmd(loader),
		newNameCmd(loader),
		newViewCmd(loader),
	)

	return rootCmd
}

type runFunc func(cmd *cobra.Command, args []string, app *app) error

// appLoader wires the app once flags are parsed, so --config and --verbose
// apply, and releases it when the command returns.
type appLoader struct {
	configFile string
	verbose    bool
}

func (l *appLoader) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		app, err := wireApp(wireOptions{
			configFile: l.configFile,
			verbose:    l.verbose,
			in:         cmd.InOrStdin(),
			errOut:     cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.close())
		}()

		return fn(cmd, args, app)
	}
}
