// Package cli implements the gazestep command-line interface.
//
// Commands decode a gesture document, run the selected gestures through the
// pipeline and write the results to disk, the terminal or an HTTP client:
//   - list: tabulate the gestures of a document
//   - layout: write the computed scene as JSON
//   - render: write SVG, PNG, JSON or Graphviz previews
//   - preview: pick a gesture interactively and render it
//   - serve: expose the pipeline over HTTP
//   - cache: inspect and clear the local cache
//
// Every command logs through charmbracelet/log. The --verbose flag lowers the
// level to debug and also traces pipeline, cache and server events.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gazestep/pkg/buildinfo"
	"github.com/matzehuels/gazestep/pkg/cache"
	"github.com/matzehuels/gazestep/pkg/config"
	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gazestep"

	// redisPrefix namespaces keys in a shared Redis database.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config holds the user defaults, loaded before any command runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gazestep previews eye gestures as annotated diagrams",
		Long: `gazestep lays out eye gestures (fixations, directional glances, area looks and
returns to the fixation point) against a reference frame and renders them as
numbered, connected diagrams in SVG, PNG, JSON or Graphviz form.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.persistentPreRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.bindPersistentFlags(root)

	// Register all subcommands
	root.AddCommand(c.listCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

// newCache picks the backend the config asks for. An unusable cache
// directory disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/gazestep/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// selectGestures picks the gestures a command works on. Named gestures are
// returned in the order given; otherwise every gesture is returned sorted by
// name, optionally only the enabled ones. Naming gestures and asking for
// enabled ones only is rejected.
func selectGestures(doc *gesture.Document, names []string, enabledOnly bool) ([]gesture.Gesture, error) {
	if len(names) > 0 && enabledOnly {
		return nil, gserrors.New(gserrors.ErrCodeInvalidInput, "--enabled-only cannot be combined with --gesture")
	}
	if len(names) > 0 {
		out := make([]gesture.Gesture, 0, len(names))
		for _, name := range names {
			g, ok := doc.Find(name)
			if !ok {
				return nil, gserrors.New(gserrors.ErrCodeGestureNotFound, "no gesture named %q", name)
			}
			out = append(out, *g)
		}
		return out, nil
	}

	var out []gesture.Gesture
	for _, g := range doc.Sorted() {
		if enabledOnly && !g.Enabled {
			continue
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		return nil, gserrors.New(gserrors.ErrCodeGestureNotFound, "document has no matching gestures")
	}
	return out, nil
}
