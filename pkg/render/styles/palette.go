// Package styles defines the colour palettes used to draw gesture previews.
package styles

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/layout"
)

// Palette holds every colour a renderer needs for one scene.
type Palette struct {
	Name string

	Background  color.RGBA // canvas fill
	Frame       color.RGBA // reference screen rectangle
	Normal      color.RGBA // shape fill, normal tier
	HighDwell   color.RGBA // shape fill, high-dwell tier
	Connector   color.RGBA // lines between anchors
	Label       color.RGBA // label disc fill
	LabelBorder color.RGBA // label disc outline
	LabelText   color.RGBA // step numbers

	ShapeOpacity float64
}

// Fill returns the shape colour for the given emphasis tier.
func (p Palette) Fill(e layout.Emphasis) color.RGBA {
	if e == layout.EmphasisHighDwell {
		return p.HighDwell
	}
	return p.Normal
}

// Stroke widths shared by every palette.
const (
	ConnectorWidth   = 2.0
	LabelBorderWidth = 2.0
)

// Classic mirrors the colours of the desktop gesture editor: green and coral
// shapes over a black canvas with a light blue screen.
var Classic = Palette{
	Name:         "classic",
	Background:   rgb(0x00, 0x00, 0x00), // Black
	Frame:        rgb(0xAD, 0xD8, 0xE6), // LightBlue
	Normal:       rgb(0x22, 0x8B, 0x22), // ForestGreen
	HighDwell:    rgb(0xF0, 0x80, 0x80), // LightCoral
	Connector:    rgb(0xFF, 0xFF, 0xFF),
	Label:        rgb(0x77, 0x88, 0x99), // LightSlateGray
	LabelBorder:  rgb(0xFF, 0xFF, 0xFF),
	LabelText:    rgb(0xFF, 0xFF, 0xFF),
	ShapeOpacity: 0.5,
}

// Contrast is a light palette with colour-blind safe tiers, suited to
// printed documentation.
var Contrast = Palette{
	Name:         "contrast",
	Background:   rgb(0xFF, 0xFF, 0xFF),
	Frame:        rgb(0xD9, 0xD9, 0xD9),
	Normal:       rgb(0x00, 0x72, 0xB2),
	HighDwell:    rgb(0xD5, 0x5E, 0x00),
	Connector:    rgb(0x1A, 0x1A, 0x1A),
	Label:        rgb(0x1A, 0x1A, 0x1A),
	LabelBorder:  rgb(0xFF, 0xFF, 0xFF),
	LabelText:    rgb(0xFF, 0xFF, 0xFF),
	ShapeOpacity: 0.6,
}

// Default is the palette used when none is requested.
const Default = "classic"

var palettes = map[string]Palette{
	Classic.Name:  Classic,
	Contrast.Name: Contrast,
}

// Lookup returns the palette registered under name. An empty name selects
// [Default].
func Lookup(name string) (Palette, error) {
	if name == "" {
		name = Default
	}
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return Palette{}, gserrors.New(gserrors.ErrCodeInvalidStyle,
			"unknown style %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the registered palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Hex formats c as a CSS colour.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha returns c with its alpha channel scaled by opacity, as a
// non-premultiplied colour.
func WithAlpha(c color.RGBA, opacity float64) color.NRGBA {
	opacity = max(0, min(1, opacity))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A)*opacity + 0.5)}
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xFF} }
