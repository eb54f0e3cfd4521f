package layout

import (
	"math"

	"github.com/matzehuels/gazestep/pkg/geom"
	"github.com/matzehuels/gazestep/pkg/gesture"
)

// LabelRadius is the default radius of a step label, in pixels.
const LabelRadius = 18.0

// minFixationSide is the smallest side a fixation circle is drawn with.
const minFixationSide = 5.0

// MaxExtent bounds every scaled step value and cursor coordinate, in pixels.
// Steps that reach further are pinned to it so the scene stays finite.
const MaxExtent = 1e7

// Result is the scene produced by [Build].
type Result struct {
	// Frame is the reference frame the gesture was laid out against.
	Frame Frame

	// Shapes holds one shape per step, in step order, in frame coordinates.
	Shapes []Shape

	// Connectors holds len(Shapes)-1 segments joining consecutive anchors,
	// in canvas coordinates.
	Connectors []Segment

	// Labels holds one label per step, in canvas coordinates.
	Labels []Label

	// Bounds is the canvas viewport in frame coordinates.
	Bounds geom.Rect

	// Fixation is the fixation point in effect after the last step, or nil
	// when the gesture has no Fixation step. Frame coordinates.
	Fixation *geom.Point
}

// Offset returns the translation from frame to canvas coordinates.
func (r Result) Offset() geom.Point {
	return geom.Point{X: -r.Bounds.Left, Y: -r.Bounds.Top}
}

// Canvas returns the canvas rectangle, with its origin at (0, 0).
func (r Result) Canvas() geom.Rect {
	return geom.Rect{Width: r.Bounds.Width, Height: r.Bounds.Height}
}

// FrameOnCanvas returns where the reference frame sits on the canvas.
func (r Result) FrameOnCanvas() geom.Rect {
	off := r.Offset()
	return r.Frame.Rect().Translate(off.X, off.Y)
}

// Placed returns the shapes translated onto the canvas.
func (r Result) Placed() []Shape {
	off := r.Offset()
	out := make([]Shape, len(r.Shapes))
	for i, s := range r.Shapes {
		out[i] = s.Translate(off.X, off.Y)
	}
	return out
}

// HighDwellCount returns how many shapes carry [EmphasisHighDwell].
func (r Result) HighDwellCount() int {
	n := 0
	for _, s := range r.Shapes {
		if s.Emphasis == EmphasisHighDwell {
			n++
		}
	}
	return n
}

// Option configures [Build].
type Option func(*options)

type options struct {
	labelRadius    float64
	dwellThreshold int
}

// WithLabelRadius overrides [LabelRadius]. Values that are not positive or
// not below [MaxExtent] are ignored.
func WithLabelRadius(r float64) Option {
	return func(o *options) {
		if r > 0 && r < MaxExtent {
			o.labelRadius = r
		}
	}
}

// WithDwellThreshold overrides [gesture.DwellThreshold], the dwell time in
// milliseconds above which a shape is emphasized.
func WithDwellThreshold(ms int) Option {
	return func(o *options) { o.dwellThreshold = ms }
}

// Build lays out g against the reference frame f.
//
// It returns a [*PrecedenceError] when a ReturnToFixation step comes before
// any Fixation step; no partial result is returned in that case. Any other
// input, however degenerate, produces a scene: negative sizes are treated as
// zero and an area too small to inset the cursor pins it to the area centre.
//
// Build is deterministic and does not modify g.
func Build(g gesture.Gesture, f Frame, opts ...Option) (Result, error) {
	o := options{labelRadius: LabelRadius, dwellThreshold: gesture.DwellThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	n := len(g.Steps)
	res := Result{
		Frame:      f,
		Shapes:     make([]Shape, 0, n),
		Connectors: make([]Segment, 0, max(n-1, 0)),
		Labels:     make([]Label, 0, n),
		Bounds:     f.DefaultBounds(),
	}

	p := placer{frame: f, label: o.labelRadius, cursor: f.Center()}
	for i, step := range g.Steps {
		s, ok := p.place(step)
		if !ok {
			return Result{}, &PrecedenceError{Index: i}
		}
		if d, isDweller := step.(gesture.Dweller); isDweller && d.Dwell() > o.dwellThreshold {
			s.Emphasis = EmphasisHighDwell
		}
		res.Shapes = append(res.Shapes, s)
		res.Bounds = res.Bounds.Union(s.Anchor, o.labelRadius)
	}

	off := res.Offset()
	for i, s := range res.Shapes {
		anchor := s.Anchor.Add(off.X, off.Y)
		if i > 0 {
			prev := res.Labels[i-1].Center
			res.Connectors = append(res.Connectors, Segment{From: prev, To: anchor})
		}
		res.Labels = append(res.Labels, Label{Number: i + 1, Center: anchor, Radius: o.labelRadius})
	}

	if p.fixation != nil {
		fp := *p.fixation
		res.Fixation = &fp
	}
	return res, nil
}

// placer carries the fold state of one layout pass.
type placer struct {
	frame    Frame
	label    float64
	cursor   geom.Point
	fixation *geom.Point
}

// place computes the shape of one step and advances the cursor. It reports
// false when the step needs a fixation point that has not been set.
func (p *placer) place(step gesture.Step) (Shape, bool) {
	switch s := step.(type) {
	case gesture.Fixation:
		fp := p.cursor
		p.fixation = &fp
		shape := p.circle(s.Kind(), s.Radius, p.cursor)
		if shape.Width/2 > p.label {
			shape.Anchor = p.cursor
		} else {
			shape.Anchor = p.cursor.Sub(p.label, p.label)
		}
		return shape, true

	case gesture.LookInDirection:
		w, h := p.frame.Width, p.frame.Height
		dx, dy := orZero(s.DX), orZero(s.DY)
		p.cursor = p.pin(p.cursor.Add(p.scaleX(dx), p.scaleY(dy)))
		shape := Shape{
			Kind:   s.Kind(),
			Left:   p.cursor.X - 2*w,
			Top:    p.cursor.Y - 2*h,
			Width:  4 * w,
			Height: 4 * h,
			Anchor: p.cursor.Add(geom.Sign(dx)*p.label, geom.Sign(dy)*p.label),
		}
		if dx != 0 {
			shape.Width = 2 * w
		}
		if dx > 0 {
			shape.Left = p.cursor.X
		}
		if dy != 0 {
			shape.Height = 2 * h
		}
		if dy > 0 {
			shape.Top = p.cursor.Y
		}
		return shape, true

	case gesture.LookAtArea:
		area := geom.Rect{
			Left:   p.scaleX(s.Left),
			Top:    p.scaleY(s.Top),
			Width:  math.Max(0, p.scaleX(s.Width)),
			Height: math.Max(0, p.scaleY(s.Height)),
		}
		p.cursor = geom.Point{
			X: geom.Clamp(p.cursor.X, area.Left+p.label, area.Right()-p.label),
			Y: geom.Clamp(p.cursor.Y, area.Top+p.label, area.Bottom()-p.label),
		}
		shape := Shape{
			Kind:   s.Kind(),
			Left:   area.Left,
			Top:    area.Top,
			Width:  area.Width,
			Height: area.Height,
			Anchor: p.cursor,
		}
		if s.Round {
			shape.Radius = area.Width + area.Height
		}
		return shape, true

	case gesture.ReturnToFixation:
		if p.fixation == nil {
			return Shape{}, false
		}
		fp := *p.fixation
		shape := p.circle(s.Kind(), s.Radius, fp)
		dx := p.label
		if p.cursor.X < fp.X {
			dx = -p.label
		}
		shape.Anchor = fp.Add(dx, p.label)
		p.cursor = fp
		return shape, true
	}
	return Shape{}, true
}

// circle returns a fixation-sized circle centred on c. The radius is a
// percentage of the frame height; the diameter never drops below
// minFixationSide.
func (p *placer) circle(kind gesture.Kind, radius float64, c geom.Point) Shape {
	side := math.Max(finite(orZero(radius)*p.frame.Height/50), minFixationSide)
	return Shape{
		Kind:   kind,
		Left:   c.X - side/2,
		Top:    c.Y - side/2,
		Width:  side,
		Height: side,
		Radius: side,
	}
}

func (p *placer) scaleX(pct float64) float64 { return finite(p.frame.ScaleX(orZero(pct))) }
func (p *placer) scaleY(pct float64) float64 { return finite(p.frame.ScaleY(orZero(pct))) }

// pin keeps the cursor within MaxExtent of the origin.
func (p *placer) pin(c geom.Point) geom.Point {
	return geom.Point{X: finite(c.X), Y: finite(c.Y)}
}

// finite clamps v to [-MaxExtent, MaxExtent], mapping NaN to zero.
func finite(v float64) float64 {
	return geom.Clamp(orZero(v), -MaxExtent, MaxExtent)
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
