package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/gazestep/pkg/config"
	"github.com/matzehuels/gazestep/pkg/observability"
	"github.com/matzehuels/gazestep/pkg/pipeline"
)

// bindPersistentFlags registers the flags every command accepts.
func (c *CLI) bindPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gazestep/config.toml)")
}

// persistentPreRun sets the log level, loads the config file and, in verbose
// mode, reports pipeline events through the logger.
func (c *CLI) persistentPreRun(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := newLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Shared Option Flags
// =============================================================================

// optionFlags holds the layout and render flags shared by several commands.
// Only flags the user set override the config file.
type optionFlags struct {
	screenWidth    float64
	screenHeight   float64
	frameWidth     float64
	frameHeight    float64
	labelRadius    float64
	dwellThreshold int
	formats        string
	style          string
	scale          float64
	title          string
	noFrame        bool
	detailed       bool
	refresh        bool
}

// bindLayout registers the flags that change a layout.
func (f *optionFlags) bindLayout(fs *pflag.FlagSet) {
	fs.Float64Var(&f.screenWidth, "screen-width", pipeline.DefaultScreenWidth, "screen working-area width; the frame is a sixth of it")
	fs.Float64Var(&f.screenHeight, "screen-height", pipeline.DefaultScreenHeight, "screen working-area height; the frame is a sixth of it")
	fs.Float64Var(&f.frameWidth, "frame-width", 0, "reference frame width (overrides --screen-width)")
	fs.Float64Var(&f.frameHeight, "frame-height", 0, "reference frame height (overrides --screen-height)")
	fs.Float64Var(&f.labelRadius, "label-radius", 0, "step label radius in pixels (default 18)")
	fs.IntVar(&f.dwellThreshold, "dwell-threshold", 0, "dwell time in ms above which a step is emphasized (default 100)")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute instead of reading the cache")
}

// bindRender registers the flags that change a rendered artifact.
func (f *optionFlags) bindRender(fs *pflag.FlagSet) {
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, json, dot, diagram (comma-separated)")
	fs.StringVar(&f.style, "style", "", "palette: classic (default), contrast")
	fs.Float64Var(&f.scale, "scale", 0, "PNG scale factor (default 2)")
	fs.StringVar(&f.title, "title", "", "title embedded in SVG output")
	fs.BoolVar(&f.noFrame, "no-frame", false, "omit the reference frame rectangle")
	fs.BoolVar(&f.detailed, "detailed", false, "show step parameters in diagram output")
}

// options layers the set flags over the config defaults.
func (f *optionFlags) options(fs *pflag.FlagSet, cfg config.Config) pipeline.Options {
	opts := cfg.Options()
	changed := fs.Changed

	if changed("screen-width") {
		opts.ScreenWidth = f.screenWidth
	}
	if changed("screen-height") {
		opts.ScreenHeight = f.screenHeight
	}
	if changed("frame-width") || changed("frame-height") {
		opts.FrameWidth, opts.FrameHeight = f.frameWidth, f.frameHeight
	}
	if changed("label-radius") {
		opts.LabelRadius = f.labelRadius
	}
	if changed("dwell-threshold") {
		opts.DwellThreshold = f.dwellThreshold
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("style") {
		opts.Style = f.style
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	opts.Title = f.title
	opts.NoFrame = f.noFrame
	opts.Detailed = f.detailed
	opts.Refresh = f.refresh
	return opts
}
