// Package render groups the output formats for laid-out gestures.
//
// # Overview
//
// Rendering starts from a [layout.Result] and never changes geometry. It is
// split into:
//
//   - [sink]: the scene as SVG, PNG (rasterized with gg) or JSON
//   - [styles]: named colour palettes shared by every output
//   - [nodelink]: the step sequence as a Graphviz chain diagram
//
// # Scene Output
//
//	res, _ := layout.Build(g, frame)
//	svg := sink.RenderSVG(res, sink.WithStyle(styles.Contrast))
//	png, err := sink.RenderPNG(res, sink.WithScale(2))
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws one node per step, left to right, with the
// step parameters in the label when detailed output is requested.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [layout.Result]: github.com/matzehuels/gazestep/pkg/layout#Result
// [sink]: github.com/matzehuels/gazestep/pkg/render/sink
// [styles]: github.com/matzehuels/gazestep/pkg/render/styles
// [nodelink]: github.com/matzehuels/gazestep/pkg/render/nodelink
package render
