package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/zoommark/internal/adapters/render/terminal"
	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
	"github.com/bnema/zoommark/internal/hittest"
	"github.com/bnema/zoommark/internal/interaction"
	"github.com/bnema/zoommark/internal/panel"
	"github.com/bnema/zoommark/internal/ports"
)

const viewHelp = `commands:
  click X Y   click at screen pixel (X, Y)
  add         toggle marker placement
  pan DX DY   move the image by (DX, DY) pixels
  zoom F      multiply the zoom by F
  rotate DEG  turn the view clockwise by DEG degrees
  markers     list markers at their screen positions
  close       close the marker panel
  say TEXT    post TEXT to the open marker's chat
  help        show this help
  quit        leave the viewer`

func newViewCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "view <image-id>",
		Short: "Open an interactive viewer session on an image",
		Long:  "view loads an image and reads viewer commands from stdin, one per line. Type help for the command list.",
		Args:  cobra.ExactArgs(1),
		RunE: loader.run(func(cmd *cobra.Command, args []string, app *app) error {
			session, err := newViewSession(app, cmd.OutOrStdout(), ports.SystemScheduler{})
			if err != nil {
				return err
			}

			id := domain.ImageID(args[0])
			load := func(ctx context.Context) (domain.Image, error) {
				if err := session.viewer.Load(ctx, id); err != nil {
					return domain.Image{}, err
				}
				return session.viewer.Image(), nil
			}
			if _, err := runImageLoad(cmd.Context(), cmd.ErrOrStderr(), id, load); err != nil {
				return err
			}
			defer session.viewer.Leave()

			return session.run(cmd.Context())
		}),
	}
}

type viewSession struct {
	app     *app
	console *terminal.Console
	surface *terminal.Surface
	viewer  *application.Viewer
	logger  *zap.Logger
}

func newViewSession(app *app, out io.Writer, scheduler ports.Scheduler) (*viewSession, error) {
	console := terminal.NewConsole(out)
	surface := terminal.NewSurface(console, app.viewport())
	logger := app.logger.Named("viewer")

	manager, err := panel.NewManager(panel.Options{
		Gateway:      app.gateway,
		View:         terminal.NewPanelView(console),
		Scheduler:    scheduler,
		Names:        app.names,
		Notifier:     app.prompter,
		PollInterval: app.config.Poll.Interval,
		Logger:       logger.Named("panel"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire marker panel: %w", err)
	}

	viewer, err := application.NewViewer(application.ViewerOptions{
		Gateway:   app.gateway,
		Surface:   surface,
		Panel:     manager,
		Mode:      interaction.NewController(surface),
		Finder:    hittest.LinearScan{},
		Names:     app.names,
		Prompter:  app.prompter,
		Tolerance: app.config.Hit.Tolerance,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("wire viewer: %w", err)
	}

	return &viewSession{
		app:     app,
		console: console,
		surface: surface,
		viewer:  viewer,
		logger:  logger,
	}, nil
}

// run reads commands until quit or end of input.
func (s *viewSession) run(ctx context.Context) error {
	s.surface.PrintOverlays()
	s.console.Println("type help for commands")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := s.app.input.ReadString('\n')
		if strings.TrimSpace(raw) != "" {
			if quit := s.dispatch(ctx, raw); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read viewer command: %w", err)
		}
	}
}

func (s *viewSession) dispatch(ctx context.Context, raw string) bool {
	fields := strings.Fields(raw)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		return true
	case "help":
		s.console.Println(viewHelp)
	case "click":
		x, y, err := parsePair(args)
		if err != nil {
			s.console.Warn("usage: click X Y")
			return false
		}
		s.click(ctx, geometry.PixelPoint{X: x, Y: y})
	case "add":
		s.viewer.ToggleMode()
	case "pan":
		dx, dy, err := parsePair(args)
		if err != nil {
			s.console.Warn("usage: pan DX DY")
			return false
		}
		s.surface.Pan(dx, dy)
		s.surface.PrintOverlays()
	case "zoom":
		factor, err := parseOne(args)
		if err != nil || factor <= 0 {
			s.console.Warn("usage: zoom F (F > 0)")
			return false
		}
		s.surface.Zoom(factor)
		s.surface.PrintOverlays()
	case "rotate":
		degrees, err := parseOne(args)
		if err != nil {
			s.console.Warn("usage: rotate DEG")
			return false
		}
		s.surface.Rotate(degrees * math.Pi / 180)
		s.surface.PrintOverlays()
	case "markers":
		s.surface.PrintOverlays()
	case "close":
		s.viewer.ClosePanel()
	case "say":
		s.say(ctx, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), fields[0])))
	default:
		s.console.Warn(fmt.Sprintf("unknown command %q, type help", fields[0]))
	}
	return false
}

func (s *viewSession) click(ctx context.Context, at geometry.PixelPoint) {
	result, err := s.viewer.HandleClick(ctx, at)
	switch {
	case errors.Is(err, domain.ErrOutsideImage):
		s.console.Warn("that point is outside the image")
	case err != nil && result.Kind == application.ClickOpened:
		// The panel already shows the failure.
		s.logger.Debug("open marker", zap.Error(err))
	case errors.Is(err, domain.ErrInvalidMarker), errors.Is(err, domain.ErrNoImageSelected):
		s.console.Warn(err.Error())
	case err != nil:
		// Save failures are reported through the prompter.
		s.logger.Warn("click failed", zap.Error(err))
	case result.Kind == application.ClickCreated:
		s.console.Println(fmt.Sprintf("marker %s saved", result.Marker.ID))
		s.surface.PrintOverlays()
	case result.Kind == application.ClickCancelled:
		s.console.Println("marker not created")
	case result.Kind == application.ClickIgnored:
		s.console.Println("no marker here")
	}
}

func (s *viewSession) say(ctx context.Context, text string) {
	err := s.viewer.PostMessage(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyMessage):
		s.console.Warn("nothing to send")
	case errors.Is(err, domain.ErrNoOpenPanel):
		s.console.Warn("open a marker first")
	case errors.Is(err, domain.ErrEmptyDisplayName):
		s.console.Warn("a display name is required to chat")
	case errors.Is(err, panel.ErrSendInProgress):
		s.console.Warn("still sending the previous message")
	default:
		// Send failures are reported through the prompter.
		s.logger.Debug("post message", zap.Error(err))
	}
}

func parsePair(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, errors.New("want two numbers")
	}
	a, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseOne(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errors.New("want one number")
	}
	return strconv.ParseFloat(args[0], 64)
}
