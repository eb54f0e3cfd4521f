package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gazestep/pkg/pipeline"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		copySVG bool
		sel     selectFlags
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "preview [gestures.xml]",
		Short: "Pick a gesture interactively and render it",
		Long: `Pick a gesture from a document in an interactive list and render it.

The list shows the steps of the gesture under the cursor. Gestures without
steps cannot be selected. With --copy the SVG preview is also placed on the
system clipboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := flags.options(cmd.Flags(), c.Config)
			opts.Logger = c.Logger
			if copySVG && len(opts.Formats) > 0 && !slices.Contains(opts.Formats, pipeline.FormatSVG) {
				opts.Formats = append(opts.Formats, pipeline.FormatSVG)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			doc, err := runner.Decode(ctx, args[0])
			if err != nil {
				return err
			}
			gestures, err := selectGestures(doc, sel.names, sel.enabledOnly)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewGestureListModel(gestures), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("gesture picker: %w", err)
			}
			m, ok := final.(GestureListModel)
			if !ok || m.Selected == nil {
				printInfo("No gesture selected")
				return nil
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			result, err := c.renderGesture(ctx, runner, *m.Selected, output, opts, 0, 1)
			if err != nil || !copySVG {
				return err
			}
			if err := clipboard.WriteAll(string(result.Artifacts[pipeline.FormatSVG])); err != nil {
				printWarning("Could not copy to clipboard: %v", err)
				return nil
			}
			printSuccess("SVG copied to clipboard")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&copySVG, "copy", false, "copy the SVG preview to the clipboard")
	sel.bind(cmd)
	flags.bindLayout(cmd.Flags())
	flags.bindRender(cmd.Flags())

	return cmd
}
