package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/pipeline"
)

// listCommand creates the list command that tabulates a gesture document.
func (c *CLI) listCommand() *cobra.Command {
	var (
		noCache bool
		sel     selectFlags
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "list [gestures.xml]",
		Short: "List the gestures of a document",
		Long: `List the gestures of a document, ordered by name.

Each gesture is laid out once so the table can show the fixation point it
resolves to and whether it is valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config)
			opts.Logger = c.Logger
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			doc, err := runner.Decode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			gestures, err := selectGestures(doc, sel.names, sel.enabledOnly)
			if err != nil {
				return err
			}

			rows, err := gestureRows(cmd.Context(), runner, gestures, opts)
			if err != nil {
				return err
			}
			writeGestureTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	sel.bind(cmd)
	flags.bindLayout(cmd.Flags())

	return cmd
}

// gestureRow is one line of the list table.
type gestureRow struct {
	Name      string
	Enabled   bool
	Steps     int
	Summary   string
	Fixation  string
	Status    string
	Valid     bool
	HighDwell int
}

// gestureRows lays out every gesture and records its fixation point.
// A gesture that fails to lay out is reported in its row; only context
// cancellation and non-gesture errors abort the listing.
func gestureRows(ctx context.Context, runner *pipeline.Runner, gestures []gesture.Gesture, opts pipeline.Options) ([]gestureRow, error) {
	rows := make([]gestureRow, 0, len(gestures))
	for _, g := range gestures {
		row := gestureRow{
			Name:     g.Name,
			Enabled:  g.Enabled,
			Steps:    len(g.Steps),
			Summary:  gestureSummary(g),
			Fixation: "-",
			Status:   "ok",
			Valid:    true,
		}

		res, err := runner.Layout(ctx, g, opts)
		switch {
		case err == nil:
			g.RecordFixation(res.Fixation)
			if g.FixationPoint != nil {
				row.Fixation = fmt.Sprintf("%.0f, %.0f", g.FixationPoint.X, g.FixationPoint.Y)
			}
			row.HighDwell = res.HighDwellCount()
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case gserrors.GetCode(err) == "", gserrors.GetCode(err) == gserrors.ErrCodeInternal:
			return nil, err
		default:
			row.Valid = false
			row.Status = gserrors.UserMessage(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeGestureTable renders rows as a bordered table.
func writeGestureTable(w io.Writer, rows []gestureRow) {
	headerStyle := styleHeader

	data := make([][]string, len(rows))
	for i, r := range rows {
		enabled := "✓"
		if !r.Enabled {
			enabled = ""
		}
		steps := strconv.Itoa(r.Steps)
		if r.HighDwell > 0 {
			steps += fmt.Sprintf(" (%d long)", r.HighDwell)
		}
		data[i] = []string{r.Name, enabled, steps, r.Summary, r.Fixation, r.Status}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Enabled", "Steps", "Summary", "Fixation", "Status").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			r := rows[row]
			switch {
			case col == 5 && !r.Valid:
				return base.Foreground(colorRed)
			case col == 5:
				return base.Foreground(colorGreen)
			case !r.Enabled:
				return base.Foreground(colorDim)
			}
			return base
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d gestures", len(rows))))
}
