package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/pipeline"
)

// selectFlags picks gestures out of a document.
type selectFlags struct {
	names       []string
	enabledOnly bool
}

func (f *selectFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.names, "gesture", "g", nil, "gesture name(s) to process (default: all)")
	cmd.Flags().BoolVar(&f.enabledOnly, "enabled-only", false, "skip disabled gestures")
}

// renderCommand creates the render command for generating gesture previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		sel     selectFlags
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "render [gestures.xml]",
		Short: "Render gesture previews to SVG, PNG, JSON or Graphviz",
		Long: `Render gesture previews.

Each selected gesture is laid out against the reference frame and written to
<output>/<gesture>.<format>. Gestures are processed in name order.

A gesture that returns to its fixation point before fixating is reported and
skipped; the command fails after processing the remaining gestures.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, noCache, sel, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	sel.bind(cmd)
	flags.bindLayout(cmd.Flags())
	flags.bindRender(cmd.Flags())

	return cmd
}

// runRender decodes the document and renders every selected gesture.
func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, sel selectFlags, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Decode(ctx, input)
	if err != nil {
		return err
	}
	gestures, err := selectGestures(doc, sel.names, sel.enabledOnly)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	prog := newProgress(c.Logger)
	opts.Logger = c.Logger
	failed := 0
	for i, g := range gestures {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := c.renderGesture(ctx, runner, g, output, opts, i, len(gestures))
		var perr *layout.PrecedenceError
		if errors.As(err, &perr) {
			printWarning("%s: %v", g.Name, perr)
			failed++
			continue
		}
		if err != nil {
			return err
		}
		prog.tick(g.Name)
	}
	prog.done(fmt.Sprintf("Rendered %d of %d gestures", len(gestures)-failed, len(gestures)))

	if failed > 0 {
		return fmt.Errorf("%d of %d gestures could not be laid out", failed, len(gestures))
	}
	return nil
}

// renderGesture renders one gesture and writes every requested format into
// output.
func (c *CLI) renderGesture(ctx context.Context, runner *pipeline.Runner, g gesture.Gesture, output string, opts pipeline.Options, i, n int) (*pipeline.Result, error) {
	spinner := newGestureSpinner(ctx, "Rendering", g.Name, i, n)
	spinner.Start()
	result, err := runner.Execute(ctx, g, opts)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name, err)
	}

	printSuccess("%s", g.Name)
	for _, format := range opts.Formats {
		path := filepath.Join(output, pipeline.FileName(g.Name, format))
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return nil, err
		}
		printFile(path)
	}
	printStats(result.Stats.StepCount, result.Stats.HighDwellCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return result, nil
}

// writeFile writes data to path, creating or truncating it.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// gestureSummary is a one-line description used by list and preview.
func gestureSummary(g gesture.Gesture) string {
	if len(g.Steps) == 0 {
		return "(no steps)"
	}
	return g.Summary()
}
