package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/gazestep/pkg/fonts"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette   styles.Palette
	title     string
	showFrame bool
}

// WithStyle sets the palette. The default is [styles.Classic].
func WithStyle(p styles.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithTitle adds a <title> element holding t.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithoutFrame omits the rectangle marking the reference frame.
func WithoutFrame() SVGOption { return func(r *svgRenderer) { r.showFrame = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: styles.Classic, showFrame: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the scene as a standalone SVG document sized to the
// canvas bounds.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	p := r.palette
	w, h := res.Bounds.Width, res.Bounds.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <defs><clipPath id=\"canvas\"><rect width=\"%.2f\" height=\"%.2f\"/></clipPath></defs>\n", w, h)
	fmt.Fprintf(&buf, "  <rect class=\"background\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"/>\n", w, h, styles.Hex(p.Background))
	buf.WriteString("  <g clip-path=\"url(#canvas)\">\n")

	if r.showFrame {
		fr := res.FrameOnCanvas()
		fmt.Fprintf(&buf, "    <rect class=\"frame\" x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"/>\n",
			fr.Left, fr.Top, fr.Width, fr.Height, styles.Hex(p.Frame))
	}
	for i, s := range res.Placed() {
		renderShape(&buf, p, i+1, s)
	}
	for _, c := range res.Connectors {
		fmt.Fprintf(&buf, "    <line class=\"connector\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"%.0f\"/>\n",
			c.From.X, c.From.Y, c.To.X, c.To.Y, styles.Hex(p.Connector), styles.ConnectorWidth)
	}
	for _, l := range res.Labels {
		renderLabel(&buf, p, l)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderShape(buf *bytes.Buffer, p styles.Palette, n int, s layout.Shape) {
	class := "step step-" + strings.ToLower(s.Kind.String())
	if s.Emphasis == layout.EmphasisHighDwell {
		class += " high-dwell"
	}
	rx := s.CornerRadius()
	fmt.Fprintf(buf, "    <rect id=\"step-%d\" class=\"%s\" x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" rx=\"%.2f\" ry=\"%.2f\" fill=\"%s\" fill-opacity=\"%.2f\"/>\n",
		n, class, s.Left, s.Top, s.Width, s.Height, rx, rx, styles.Hex(p.Fill(s.Emphasis)), p.ShapeOpacity)
}

func renderLabel(buf *bytes.Buffer, p styles.Palette, l layout.Label) {
	fmt.Fprintf(buf, "    <g class=\"label\" id=\"label-%d\">\n", l.Number)
	fmt.Fprintf(buf, "      <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%.0f\"/>\n",
		l.Center.X, l.Center.Y, l.Radius-styles.LabelBorderWidth/2, styles.Hex(p.Label), styles.Hex(p.LabelBorder), styles.LabelBorderWidth)
	fmt.Fprintf(buf, "      <text x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\" dominant-baseline=\"central\" font-family=\"%s\" font-size=\"%.0f\" fill=\"%s\">%d</text>\n",
		l.Center.X, l.Center.Y, styles.EscapeXML(fonts.FallbackFontFamily), styles.LabelFontSize(l.Radius, l.Number), styles.Hex(p.LabelText), l.Number)
	buf.WriteString("    </g>\n")
}
