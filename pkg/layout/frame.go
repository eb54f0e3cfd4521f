package layout

import (
	"math"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/geom"
)

// ScreenDivisor is the factor between a screen's working area and the
// reference frame derived from it.
const ScreenDivisor = 6

// Frame is the reference display that percent-valued step fields are
// scaled against.
type Frame struct {
	Width  float64
	Height float64
}

// FrameFromScreen derives the reference frame for a screen working area of
// the given size.
func FrameFromScreen(width, height float64) Frame {
	return Frame{Width: width / ScreenDivisor, Height: height / ScreenDivisor}
}

// Center returns the middle of the frame, where every layout starts.
func (f Frame) Center() geom.Point {
	return geom.Point{X: f.Width / 2, Y: f.Height / 2}
}

// Rect returns the frame as a rectangle at the origin.
func (f Frame) Rect() geom.Rect {
	return geom.Rect{Width: f.Width, Height: f.Height}
}

// DefaultBounds returns the canvas bounds before any step is placed.
func (f Frame) DefaultBounds() geom.Rect {
	return geom.Rect{
		Left:   -0.2 * f.Width,
		Top:    -0.2 * f.Height,
		Width:  1.4 * f.Width,
		Height: 1.4 * f.Height,
	}
}

// ScaleX converts a percentage of the frame width to pixels.
func (f Frame) ScaleX(pct float64) float64 { return pct * f.Width / 100 }

// ScaleY converts a percentage of the frame height to pixels.
func (f Frame) ScaleY(pct float64) float64 { return pct * f.Height / 100 }

// Validate reports whether the frame has a finite, positive size.
func (f Frame) Validate() error {
	if !positive(f.Width) || !positive(f.Height) {
		return gserrors.New(gserrors.ErrCodeInvalidFrame, "frame must have a positive size, got %gx%g", f.Width, f.Height)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
