package layout

import (
	"math"

	"github.com/matzehuels/gazestep/pkg/geom"
	"github.com/matzehuels/gazestep/pkg/gesture"
)

// Emphasis is the colour tier of a shape.
type Emphasis int

const (
	EmphasisNormal Emphasis = iota
	EmphasisHighDwell
)

func (e Emphasis) String() string {
	if e == EmphasisHighDwell {
		return "high_dwell"
	}
	return "normal"
}

// Shape is the placed geometry of one step.
//
// Radius is the requested corner rounding: 0 draws a rectangle, half the
// smaller side draws an ellipse, and anything larger is capped by the
// renderer (see [Shape.CornerRadius]). Anchor is where the step's label and
// connectors attach; it is not necessarily the centre of the shape.
type Shape struct {
	Kind     gesture.Kind
	Left     float64
	Top      float64
	Width    float64
	Height   float64
	Radius   float64
	Anchor   geom.Point
	Emphasis Emphasis
}

// Bounds returns the bounding box of the shape.
func (s Shape) Bounds() geom.Rect {
	return geom.Rect{Left: s.Left, Top: s.Top, Width: s.Width, Height: s.Height}
}

// CornerRadius returns the rounding a renderer can actually draw.
func (s Shape) CornerRadius() float64 {
	return math.Max(0, math.Min(s.Radius, math.Min(s.Width, s.Height)/2))
}

// Translate returns the shape moved by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	s.Left += dx
	s.Top += dy
	s.Anchor = s.Anchor.Add(dx, dy)
	return s
}

// Segment is a connector between the anchors of two consecutive steps.
type Segment struct {
	From geom.Point
	To   geom.Point
}

// Label is the numbered disc drawn on a step's anchor. Number is the
// 1-based position of the step.
type Label struct {
	Number int
	Center geom.Point
	Radius float64
}
