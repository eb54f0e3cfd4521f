package sink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/fonts"
	"github.com/matzehuels/gazestep/pkg/geom"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

const (
	defaultScale = 2.0
	maxScale     = 8.0
	maxPixels    = 64 << 20
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions applies SVG options (palette, frame) to the raster.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the scene. It fails when the scale is out of range or
// the image would exceed the pixel budget.
func RenderPNG(res layout.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: defaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || r.scale > maxScale || math.IsNaN(r.scale) {
		return nil, gserrors.New(gserrors.ErrCodeInvalidInput, "png scale must be in (0, %g], got %g", maxScale, r.scale)
	}

	w := int(math.Ceil(res.Bounds.Width*r.scale - geom.Epsilon))
	h := int(math.Ceil(res.Bounds.Height*r.scale - geom.Epsilon))
	if w <= 0 || h <= 0 || w*h > maxPixels {
		return nil, gserrors.New(gserrors.ErrCodeInvalidInput, "png canvas %dx%d is out of range", w, h)
	}

	sr := newSVGRenderer(r.svgOpts...)
	p := sr.palette

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	dc.SetColor(p.Background)
	dc.Clear()

	if sr.showFrame {
		fr := res.FrameOnCanvas()
		dc.SetColor(p.Frame)
		dc.DrawRectangle(fr.Left, fr.Top, fr.Width, fr.Height)
		dc.Fill()
	}

	for _, s := range res.Placed() {
		dc.SetColor(styles.WithAlpha(p.Fill(s.Emphasis), p.ShapeOpacity))
		dc.DrawRoundedRectangle(s.Left, s.Top, s.Width, s.Height, s.CornerRadius())
		dc.Fill()
	}

	dc.SetColor(p.Connector)
	dc.SetLineWidth(styles.ConnectorWidth)
	for _, c := range res.Connectors {
		dc.DrawLine(c.From.X, c.From.Y, c.To.X, c.To.Y)
		dc.Stroke()
	}

	faces := map[float64]font.Face{}
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()
	for _, l := range res.Labels {
		size := styles.LabelFontSize(l.Radius, l.Number)
		face, ok := faces[size]
		if !ok {
			var err error
			if face, err = fonts.Face(size); err != nil {
				return nil, fmt.Errorf("load label font: %w", err)
			}
			faces[size] = face
		}
		dc.SetFontFace(face)

		dc.DrawCircle(l.Center.X, l.Center.Y, l.Radius-styles.LabelBorderWidth/2)
		dc.SetColor(p.Label)
		dc.FillPreserve()
		dc.SetColor(p.LabelBorder)
		dc.SetLineWidth(styles.LabelBorderWidth)
		dc.Stroke()

		dc.SetColor(p.LabelText)
		dc.DrawStringAnchored(strconv.Itoa(l.Number), l.Center.X, l.Center.Y, 0.5, 0.35)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
