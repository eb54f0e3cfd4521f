package pipeline

import (
	"context"
	"fmt"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/render/nodelink"
	"github.com/matzehuels/gazestep/pkg/render/sink"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

// Render generates output artifacts in the requested formats.
//
// The scene formats (svg, png, json) draw res; the diagram formats (dot,
// diagram) describe the step sequence of g and ignore the scene.
func Render(ctx context.Context, res layout.Result, g gesture.Gesture, opts Options) (map[string][]byte, error) {
	palette, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(palette, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(res, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatJSON:
			data, err = sink.RenderJSON(res, sink.WithJSONName(g.Name), sink.WithJSONStyle(palette.Name))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(g, nodelinkOptions(palette, opts)))
		case FormatDiagram:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelinkOptions(palette, opts)))
		default:
			return nil, gserrors.New(gserrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds the scene rendering options shared by SVG and PNG.
func buildSVGOptions(p styles.Palette, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(p)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.NoFrame {
		svgOpts = append(svgOpts, sink.WithoutFrame())
	}
	return svgOpts
}

func nodelinkOptions(p styles.Palette, opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Palette: &p}
}

// Extension returns the file extension, with its leading dot, that an
// artifact of the given format is written with.
func Extension(format string) string {
	switch format {
	case FormatDiagram:
		return ".diagram.svg"
	default:
		return "." + format
	}
}

// FileName returns the output file name for a gesture's artifact.
func FileName(gestureName, format string) string {
	return gserrors.FileStem(gestureName) + Extension(format)
}
