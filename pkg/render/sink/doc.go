// Package sink renders a laid-out gesture to its output formats.
//
// A "sink" consumes a [layout.Result] and produces bytes:
//
//   - SVG: vector preview, clipped to the canvas bounds
//   - PNG: the same scene rasterized in-process with gg
//   - JSON: the scene geometry for other tools
//
// All sinks draw in canvas coordinates: the reference screen, the shapes,
// the connectors and the numbered labels are shifted by the canvas origin
// so that every label fits. Shapes larger than the canvas are clipped.
//
// Basic usage:
//
//	res, err := layout.Build(g, frame)
//	svg := sink.RenderSVG(res,
//	    sink.WithStyle(styles.Classic),
//	    sink.WithTitle(g.Name),
//	)
//	png, err := sink.RenderPNG(res, sink.WithScale(2))
//
// [layout.Result]: github.com/matzehuels/gazestep/pkg/layout.Result
package sink
