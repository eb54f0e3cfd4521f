// Package nodelink renders a gesture as a step-sequence diagram.
//
// # Overview
//
// Where the preview scene shows where the gaze goes, the node-link diagram
// shows the order of steps: one node per step, chained left to right, with
// a dashed back-edge from every ReturnToFixation step to the Fixation it
// returns to. Nodes are filled with the preview palette's tier colours.
//
// # Usage
//
// Convert a gesture to DOT, then render it with Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the step parameters
//   - Palette: Tier colours; defaults to [styles.Classic]
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// No external Graphviz installation is required.
//
// [styles.Classic]: github.com/matzehuels/gazestep/pkg/render/styles.Classic
package nodelink
