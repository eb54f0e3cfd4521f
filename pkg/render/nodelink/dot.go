package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes step parameters in node labels.
	// When false, only the step number and kind are shown.
	Detailed bool

	// Palette supplies the tier colours. The zero value selects the
	// classic palette.
	Palette *styles.Palette
}

// ToDOT converts a gesture to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// ReturnToFixation steps get a dashed edge back to the most recent Fixation
// step. A return with no prior fixation is drawn with a red outline instead.
func ToDOT(g gesture.Gesture, opts Options) string {
	p := styles.Classic
	if opts.Palette != nil {
		p = *opts.Palette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	if g.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", g.Name)
	}
	buf.WriteString("\n")

	lastFixation := -1
	var backEdges []string
	for i, s := range g.Steps {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(i, s, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", fillFor(p, s)),
		}
		switch s.Kind() {
		case gesture.KindFixation:
			lastFixation = i
			attrs = append(attrs, "shape=circle")
		case gesture.KindReturnToFixation:
			if lastFixation < 0 {
				attrs = append(attrs, "color=red", "penwidth=3")
			} else {
				backEdges = append(backEdges, fmt.Sprintf("  %s -> %s [style=dashed, constraint=false];\n", nodeID(i), nodeID(lastFixation)))
			}
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(g.Steps); i++ {
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(i-1), nodeID(i))
	}
	for _, e := range backEdges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "s" + strconv.Itoa(i+1) }

func fillFor(p styles.Palette, s gesture.Step) string {
	if gesture.HighDwell(s) {
		return styles.Hex(p.HighDwell)
	}
	return styles.Hex(p.Normal)
}

func fmtLabel(i int, s gesture.Step, detailed bool) string {
	head := fmt.Sprintf("%d. %s", i+1, s.Kind())
	if !detailed {
		return head
	}

	var parts []string
	switch v := s.(type) {
	case gesture.Fixation:
		parts = append(parts, fmt.Sprintf("radius: %g%%", v.Radius))
	case gesture.LookInDirection:
		parts = append(parts, fmt.Sprintf("dx: %g%%", v.DX), fmt.Sprintf("dy: %g%%", v.DY))
	case gesture.LookAtArea:
		parts = append(parts, fmt.Sprintf("area: %g,%g %gx%g%%", v.Left, v.Top, v.Width, v.Height))
		if v.Round {
			parts = append(parts, "round")
		}
	case gesture.ReturnToFixation:
		parts = append(parts, fmt.Sprintf("radius: %g%%", v.Radius))
	}
	if d, ok := s.(gesture.Dweller); ok && d.Dwell() > 0 {
		parts = append(parts, fmt.Sprintf("dwell: %dms", d.Dwell()))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> header with a
// pixel-sized one so the diagram scales like the preview.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
