// Package config loads user defaults for gazestep from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/gazestep/config.toml, falling back to
// ~/.config/gazestep/config.toml. Every key is optional:
//
//	screen_width  = 2560
//	screen_height = 1440
//	formats       = ["svg", "png"]
//	style         = "contrast"
//	scale         = 2.0
//
//	[cache]
//	dir        = "/var/cache/gazestep"
//	disabled   = false
//	redis_addr = "localhost:6379"
//	ttl        = "24h"
//
//	[serve]
//	addr = ":8080"
//
// Command-line flags override file values; [pipeline.Options.SetDefaults]
// style defaults fill whatever neither sets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/pipeline"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// DefaultServeAddr is the listen address of the preview service.
const DefaultServeAddr = "127.0.0.1:8080"

// Config holds the user defaults.
type Config struct {
	ScreenWidth    float64  `toml:"screen_width"`
	ScreenHeight   float64  `toml:"screen_height"`
	DwellThreshold int      `toml:"dwell_threshold"`
	Formats        []string `toml:"formats"`
	Style          string   `toml:"style"`
	Scale          float64  `toml:"scale"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Dir           string   `toml:"dir"`
	Disabled      bool     `toml:"disabled"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// ServeConfig configures the preview service.
type ServeConfig struct {
	Addr string `toml:"addr"`

	// RateLimit is the sustained requests per second allowed per client.
	// Zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Dir returns the gazestep config directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gazestep"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gazestep"), nil
}

// DefaultPath returns the path of the user config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at path. A missing file yields an empty
// config; unknown keys and invalid values are errors.
func Load(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, gserrors.New(gserrors.ErrCodeInvalidInput,
			"config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault reads the config file at [DefaultPath].
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}

// Validate checks the values a file may set. Unset values are valid.
func (c Config) Validate() error {
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidFrame, "screen size must be positive, got %gx%g", c.ScreenWidth, c.ScreenHeight)
	}
	if c.DwellThreshold < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "dwell_threshold must not be negative")
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	if c.Style != "" {
		if err := pipeline.ValidateStyle(c.Style); err != nil {
			return err
		}
	}
	if c.Scale != 0 {
		if err := pipeline.ValidateScale(c.Scale); err != nil {
			return err
		}
	}
	if c.Serve.RateLimit < 0 || c.Serve.Burst < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "serve.rate_limit and serve.burst must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// Options returns pipeline options prefilled from the config. Fields the
// config leaves unset stay zero so the pipeline defaults apply.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		ScreenWidth:    c.ScreenWidth,
		ScreenHeight:   c.ScreenHeight,
		DwellThreshold: c.DwellThreshold,
		Formats:        append([]string(nil), c.Formats...),
		Style:          c.Style,
		Scale:          c.Scale,
	}
}

// ServeAddr returns the configured listen address or [DefaultServeAddr].
func (c Config) ServeAddr() string {
	if c.Serve.Addr != "" {
		return c.Serve.Addr
	}
	return DefaultServeAddr
}
