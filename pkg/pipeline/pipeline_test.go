package pipeline

import (
	"testing"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", false},
		{"diagram", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !gserrors.Is(err, gserrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want %v", tt.format, gserrors.GetCode(err), gserrors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"classic", false},
		{"contrast", false},
		{"Contrast", false},
		{"", false}, // default palette
		{"handdrawn", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateScale(t *testing.T) {
	for _, tt := range []struct {
		scale   float64
		wantErr bool
	}{
		{1, false},
		{MaxScale, false},
		{0, true},
		{-1, true},
		{MaxScale + 0.5, true},
	} {
		if err := ValidateScale(tt.scale); (err != nil) != tt.wantErr {
			t.Errorf("ValidateScale(%g) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
		}
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.ScreenWidth != DefaultScreenWidth || opts.ScreenHeight != DefaultScreenHeight {
		t.Errorf("screen = %gx%g, want %gx%g", opts.ScreenWidth, opts.ScreenHeight, DefaultScreenWidth, DefaultScreenHeight)
	}
	if got, want := opts.Frame(), (layout.Frame{Width: 320, Height: 180}); got != want {
		t.Errorf("Frame() = %v, want %v", got, want)
	}
	if opts.LabelRadius != layout.LabelRadius {
		t.Errorf("LabelRadius = %g, want %g", opts.LabelRadius, layout.LabelRadius)
	}
	if opts.DwellThreshold != gesture.DwellThreshold {
		t.Errorf("DwellThreshold = %d, want %d", opts.DwellThreshold, gesture.DwellThreshold)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestSetLayoutDefaultsFrameWins(t *testing.T) {
	opts := Options{ScreenWidth: 600, ScreenHeight: 600, FrameWidth: 1200, FrameHeight: 800}
	opts.SetLayoutDefaults()
	if got, want := opts.Frame(), (layout.Frame{Width: 1200, Height: 800}); got != want {
		t.Errorf("Frame() = %v, want %v", got, want)
	}

	opts = Options{ScreenWidth: 600, ScreenHeight: 1200}
	opts.SetLayoutDefaults()
	if got, want := opts.Frame(), (layout.Frame{Width: 100, Height: 200}); got != want {
		t.Errorf("Frame() = %v, want %v", got, want)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code gserrors.Code
	}{
		{"defaults", Options{}, ""},
		{"negative frame", Options{FrameWidth: -1, FrameHeight: 10}, gserrors.ErrCodeInvalidFrame},
		{"zero frame height", Options{FrameWidth: 10}, gserrors.ErrCodeInvalidFrame},
		{"negative label", Options{LabelRadius: -2}, gserrors.ErrCodeInvalidInput},
		{"negative threshold", Options{DwellThreshold: -1}, gserrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" {
				if err != nil {
					t.Errorf("ValidateForLayout() error = %v", err)
				}
				return
			}
			if !gserrors.Is(err, tt.code) {
				t.Errorf("ValidateForLayout() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestValidateForRender(t *testing.T) {
	opts := Options{Formats: []string{"svg", "gif"}}
	if err := opts.ValidateForRender(); !gserrors.Is(err, gserrors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_FORMAT", err)
	}

	opts = Options{Style: "neon"}
	if err := opts.ValidateForRender(); !gserrors.Is(err, gserrors.ErrCodeInvalidStyle) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_STYLE", err)
	}

	opts = Options{Scale: 20}
	if err := opts.ValidateForRender(); !gserrors.Is(err, gserrors.ErrCodeInvalidInput) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"png"}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.Frame()
	originalStyle := opts.Style

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Frame() != first {
		t.Error("Frame changed on second call")
	}
	if opts.Style != originalStyle {
		t.Error("Style changed on second call")
	}
}

func TestKeyOpts(t *testing.T) {
	opts := Options{FrameWidth: 400, FrameHeight: 300, Style: "contrast", Title: "t", Detailed: true}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	lk := opts.LayoutKeyOpts()
	if lk.FrameWidth != 400 || lk.FrameHeight != 300 || lk.LabelRadius != layout.LabelRadius {
		t.Errorf("LayoutKeyOpts() = %+v", lk)
	}
	ak := opts.ArtifactKeyOpts("png")
	if ak.Format != "png" || ak.Style != "contrast" || ak.Title != "t" || !ak.Detailed || ak.Layout != lk {
		t.Errorf("ArtifactKeyOpts() = %+v", ak)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name, format, want string
	}{
		{"Scroll down", "svg", "Scroll-down.svg"},
		{"Corner", "png", "Corner.png"},
		{"Corner", "diagram", "Corner.diagram.svg"},
		{"???", "json", "gesture.json"},
	}
	for _, tt := range tests {
		if got := FileName(tt.name, tt.format); got != tt.want {
			t.Errorf("FileName(%q, %q) = %q, want %q", tt.name, tt.format, got, tt.want)
		}
	}
}
