package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/pipeline"
	"github.com/matzehuels/gazestep/pkg/render/sink"
)

// layoutCommand creates the layout command for computing gesture scenes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		sel     selectFlags
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [gestures.xml]",
		Short: "Compute gesture scenes as JSON",
		Long: `Compute gesture scenes.

The layout command decodes a gesture document (XML, JSON, YAML or TOML) and
lays out each selected gesture against the reference frame. Every scene is
written to <output>/<gesture>.layout.json in the same shape as 'render -f json'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config)
			return c.runLayout(cmd.Context(), args[0], output, noCache, sel, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	sel.bind(cmd)
	flags.bindLayout(cmd.Flags())
	cmd.Flags().StringVar(&flags.style, "style", "", "palette name recorded in the output")

	return cmd
}

// runLayout decodes the document, computes each layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, sel selectFlags, opts pipeline.Options) error {
	opts.Logger = c.Logger
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	if opts.Style == "" {
		opts.Style = pipeline.DefaultStyle
	}
	if err := pipeline.ValidateStyle(opts.Style); err != nil {
		return err
	}

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

	for i, g := range gestures {
		spinner := newGestureSpinner(ctx, "Laying out", g.Name, i, len(gestures))
		spinner.Start()

		res, hit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			spinner.StopWithError(g.Name)
			return fmt.Errorf("%s: %w", g.Name, err)
		}
		spinner.Stop()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		data, err := sink.RenderJSON(res, sink.WithJSONName(g.Name), sink.WithJSONStyle(opts.Style))
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		path := filepath.Join(output, gserrors.FileStem(g.Name)+".layout.json")
		if err := writeFile(path, data); err != nil {
			return err
		}

		printSuccess("%s", g.Name)
		printFile(path)
		printStats(len(g.Steps), res.HighDwellCount(), hit)
	}

	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}
