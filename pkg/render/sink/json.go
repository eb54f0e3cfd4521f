package sink

import (
	"encoding/json"

	"github.com/matzehuels/gazestep/pkg/geom"
	"github.com/matzehuels/gazestep/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name  string
	style string
}

// WithJSONName records the gesture name in the output.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONStyle records the palette name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Name       string        `json:"name,omitempty"`
	Style      string        `json:"style,omitempty"`
	Frame      jsonSize      `json:"frame"`
	Bounds     jsonRect      `json:"bounds"`
	Canvas     jsonSize      `json:"canvas"`
	Offset     jsonPoint     `json:"offset"`
	Shapes     []jsonShape   `json:"shapes"`
	Connectors []jsonSegment `json:"connectors"`
	Labels     []jsonLabel   `json:"labels"`
	Fixation   *jsonPoint    `json:"fixation,omitempty"`
}

type jsonSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonShape struct {
	Step     int       `json:"step"`
	Kind     string    `json:"kind"`
	Left     float64   `json:"left"`
	Top      float64   `json:"top"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Radius   float64   `json:"radius"`
	Anchor   jsonPoint `json:"anchor"`
	Emphasis string    `json:"emphasis"`
}

type jsonSegment struct {
	From jsonPoint `json:"from"`
	To   jsonPoint `json:"to"`
}

type jsonLabel struct {
	Number int       `json:"number"`
	Center jsonPoint `json:"center"`
	Radius float64   `json:"radius"`
}

// RenderJSON exports the scene as a pretty-printed JSON document.
//
// Shapes, connectors and labels are in canvas coordinates; bounds and the
// fixation point stay in frame coordinates, with offset translating between
// the two.
func RenderJSON(res layout.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:       r.name,
		Style:      r.style,
		Frame:      jsonSize{Width: res.Frame.Width, Height: res.Frame.Height},
		Bounds:     jsonRect{Left: res.Bounds.Left, Top: res.Bounds.Top, Width: res.Bounds.Width, Height: res.Bounds.Height},
		Canvas:     jsonSize{Width: res.Bounds.Width, Height: res.Bounds.Height},
		Offset:     toJSONPoint(res.Offset()),
		Shapes:     make([]jsonShape, 0, len(res.Shapes)),
		Connectors: make([]jsonSegment, 0, len(res.Connectors)),
		Labels:     make([]jsonLabel, 0, len(res.Labels)),
	}
	for i, s := range res.Placed() {
		out.Shapes = append(out.Shapes, jsonShape{
			Step:     i + 1,
			Kind:     s.Kind.String(),
			Left:     s.Left,
			Top:      s.Top,
			Width:    s.Width,
			Height:   s.Height,
			Radius:   s.Radius,
			Anchor:   toJSONPoint(s.Anchor),
			Emphasis: s.Emphasis.String(),
		})
	}
	for _, c := range res.Connectors {
		out.Connectors = append(out.Connectors, jsonSegment{From: toJSONPoint(c.From), To: toJSONPoint(c.To)})
	}
	for _, l := range res.Labels {
		out.Labels = append(out.Labels, jsonLabel{Number: l.Number, Center: toJSONPoint(l.Center), Radius: l.Radius})
	}
	if res.Fixation != nil {
		fp := toJSONPoint(*res.Fixation)
		out.Fixation = &fp
	}

	return json.MarshalIndent(out, "", "  ")
}

func toJSONPoint(p geom.Point) jsonPoint { return jsonPoint{X: p.X, Y: p.Y} }
