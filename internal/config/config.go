// Package config loads zm settings from config.toml, ZM_* environment
// variables and built-in defaults, in that order of precedence reversed.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "ZM"
	configName = "config"
	configType = "toml"
	appDir     = "zoommark"
)

const (
	KeyAPIBaseURL      = "api.base_url"
	KeyAPITimeout      = "api.timeout"
	KeyAPIRateLimit    = "api.rate_limit"
	KeyAPIBurst        = "api.burst"
	KeyGalleryCacheTTL = "gallery.cache_ttl"
	KeyPollInterval    = "poll.interval"
	KeyHitTolerance    = "hit.tolerance"
	KeyViewportWidth   = "viewport.width"
	KeyViewportHeight  = "viewport.height"
	KeyPrefsPath       = "prefs.path"
	KeyLogPath         = "log.path"
	KeyLogLevel        = "log.level"
)

type Config struct {
	API      APIConfig
	Gallery  GalleryConfig
	Poll     PollConfig
	Hit      HitConfig
	Viewport ViewportConfig
	Prefs    PrefsConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type GalleryConfig struct {
	CacheTTL time.Duration
}

type PollConfig struct {
	Interval time.Duration
}

type HitConfig struct {
	Tolerance float64
}

type ViewportConfig struct {
	Width  float64
	Height float64
}

type PrefsConfig struct {
	Path string
}

type LogConfig struct {
	Path  string
	Level string
}

// New returns a viper instance with the search paths, env binding and
// defaults for zm. configFile, when set, replaces the search paths.
func New(configFile string) (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, ".config", appDir)

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appDir))
		}
		v.AddConfigPath(baseDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIBaseURL, "http://127.0.0.1:5002")
	v.SetDefault(KeyAPITimeout, 30*time.Second)
	v.SetDefault(KeyAPIRateLimit, 10.0)
	v.SetDefault(KeyAPIBurst, 5)
	v.SetDefault(KeyGalleryCacheTTL, 30*time.Second)
	v.SetDefault(KeyPollInterval, 5*time.Second)
	v.SetDefault(KeyHitTolerance, 20.0)
	v.SetDefault(KeyViewportWidth, 1280.0)
	v.SetDefault(KeyViewportHeight, 800.0)
	v.SetDefault(KeyPrefsPath, filepath.Join(baseDir, "prefs.toml"))
	v.SetDefault(KeyLogPath, filepath.Join(baseDir, "logs", "zm.log"))
	v.SetDefault(KeyLogLevel, "info")

	return v, nil
}

// Load reads the config file if one exists and returns the validated
// settings.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		API: APIConfig{
			BaseURL:   strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
			Timeout:   v.GetDuration(KeyAPITimeout),
			RateLimit: v.GetFloat64(KeyAPIRateLimit),
			Burst:     v.GetInt(KeyAPIBurst),
		},
		Gallery:  GalleryConfig{CacheTTL: v.GetDuration(KeyGalleryCacheTTL)},
		Poll:     PollConfig{Interval: v.GetDuration(KeyPollInterval)},
		Hit:      HitConfig{Tolerance: v.GetFloat64(KeyHitTolerance)},
		Viewport: ViewportConfig{Width: v.GetFloat64(KeyViewportWidth), Height: v.GetFloat64(KeyViewportHeight)},
		Prefs:    PrefsConfig{Path: strings.TrimSpace(v.GetString(KeyPrefsPath))},
		Log: LogConfig{
			Path:  strings.TrimSpace(v.GetString(KeyLogPath)),
			Level: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q must be an http(s) url", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit must not be negative"))
	}
	if c.API.Burst < 0 {
		errs = append(errs, errors.New("api.burst must not be negative"))
	}
	if c.Gallery.CacheTTL < 0 {
		errs = append(errs, errors.New("gallery.cache_ttl must not be negative"))
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, errors.New("poll.interval must be positive"))
	}
	if c.Hit.Tolerance <= 0 {
		errs = append(errs, errors.New("hit.tolerance must be positive"))
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, errors.New("viewport.width and viewport.height must be positive"))
	}
	if c.Prefs.Path == "" {
		errs = append(errs, errors.New("prefs.path is required"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
