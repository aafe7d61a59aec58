package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bnema/zoommark/internal/adapters/gateway/cached"
	"github.com/bnema/zoommark/internal/adapters/gateway/rest"
	prefstoml "github.com/bnema/zoommark/internal/adapters/prefs/toml"
	"github.com/bnema/zoommark/internal/adapters/prompt/line"
	"github.com/bnema/zoommark/internal/adapters/render/terminal"
	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/config"
	"github.com/bnema/zoommark/internal/geometry"
	"github.com/bnema/zoommark/internal/logging"
	"github.com/bnema/zoommark/internal/ports"
)

type wireOptions struct {
	configFile string
	verbose    bool
	in         io.Reader
	errOut     io.Writer
}

type app struct {
	config   config.Config
	logger   *zap.Logger
	closeLog func() error
	gateway  ports.Gateway
	prefs    ports.PreferenceStore
	input    *bufio.Reader
	prompter *line.Prompter
	names    *application.DisplayNames
	service  *application.Service
	gallery  *application.Gallery
}

func wireApp(opts wireOptions) (*app, error) {
	v, err := config.New(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Verbose: opts.verbose,
		Console: opts.errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	gateway, err := wireGateway(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	prefs, err := wirePrefs(v, cfg)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	input := bufio.NewReader(opts.in)
	errConsole := terminal.NewConsole(opts.errOut)
	prompter := line.New(input, opts.errOut, errConsole.Warn)
	names := application.NewDisplayNames(prefs, prompter)

	return &app{
		config:   cfg,
		logger:   logger,
		closeLog: closeLog,
		gateway:  gateway,
		prefs:    prefs,
		input:    input,
		prompter: prompter,
		names:    names,
		service:  application.NewService(gateway, names, logger.Named("service")),
		gallery:  application.NewGallery(gateway),
	}, nil
}

// wireGateway builds the HTTP client and, unless disabled by a zero TTL,
// wraps it with the gallery cache.
func wireGateway(cfg config.Config, logger *zap.Logger) (ports.Gateway, error) {
	client, err := rest.NewClient(rest.Options{
		BaseURL:        cfg.API.BaseURL,
		RequestTimeout: cfg.API.Timeout,
		RateLimit:      cfg.API.RateLimit,
		Burst:          cfg.API.Burst,
		Logger:         logger.Named("gateway"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire gateway: %w", err)
	}
	if cfg.Gallery.CacheTTL <= 0 {
		return client, nil
	}
	return cached.New(client, cfg.Gallery.CacheTTL), nil
}

func wirePrefs(v *viper.Viper, cfg config.Config) (*prefstoml.Store, error) {
	v.Set(prefstoml.PathKey, cfg.Prefs.Path)
	store, err := prefstoml.NewStore(v)
	if err != nil {
		return nil, fmt.Errorf("wire preference store: %w", err)
	}
	return store, nil
}

// viewport is the screen the image is fitted to. Image pixel sizes are not
// known to the client, so the image is assumed to fill the container.
func (a *app) viewport() geometry.Viewport {
	w, h := a.config.Viewport.Width, a.config.Viewport.Height
	return geometry.NewViewport(w, h, w, h)
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}
