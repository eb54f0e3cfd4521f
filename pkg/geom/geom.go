// Package geom provides the small set of 2D primitives shared by the layout
// engine and the renderers.
//
// Coordinates follow screen conventions: X grows to the right and Y grows
// downwards. All values are in pixels of the reference frame unless a caller
// has translated them onto a canvas.
package geom

import "math"

// Epsilon is the tolerance used by containment checks, in pixels.
const Epsilon = 1e-6

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Sub returns p translated by (-dx, -dy).
func (p Point) Sub(dx, dy float64) Point { return Point{X: p.X - dx, Y: p.Y - dy} }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.Left, Y: r.Top} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// ContainsDisc reports whether the disc of the given radius around p lies
// inside r, edges included. Overshoots below Epsilon are tolerated so that
// a rectangle built with Union still contains its own discs after rounding.
func (r Rect) ContainsDisc(p Point, radius float64) bool {
	return p.X-radius >= r.Left-Epsilon && p.X+radius <= r.Right()+Epsilon &&
		p.Y-radius >= r.Top-Epsilon && p.Y+radius <= r.Bottom()+Epsilon
}

// Union returns the smallest rectangle containing both r and the square of
// half-size margin around p. The result is never smaller than r.
func (r Rect) Union(p Point, margin float64) Rect {
	left := math.Min(r.Left, p.X-margin)
	top := math.Min(r.Top, p.Y-margin)
	right := math.Max(r.Right(), p.X+margin)
	bottom := math.Max(r.Bottom(), p.Y+margin)
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

// Clamp limits v to [lo, hi]. When the range is inverted the midpoint is
// returned, so a range narrower than its inset still yields a stable value.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// Sign returns -1, 0 or 1 according to the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
