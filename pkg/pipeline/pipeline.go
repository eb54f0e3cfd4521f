// Package pipeline provides the decode → layout → render pipeline for gazestep.
//
// The CLI and the preview service both drive gestures through this package,
// so defaults, validation and caching behave the same from every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: read a gesture document (XML, JSON, YAML or TOML)
//  2. Layout: place each step of a gesture against the reference frame
//  3. Render: generate output in various formats (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := runner.Decode(ctx, "gestures.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, doc.Gestures[0], pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gazestep/pkg/cache"
	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Service
// =============================================================================

const (
	// DefaultScreenWidth is the working-area width the frame is derived from
	// when neither a frame nor a screen size is given.
	DefaultScreenWidth = 1920.0

	// DefaultScreenHeight is the working-area height the frame is derived
	// from when neither a frame nor a screen size is given.
	DefaultScreenHeight = 1080.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale is the largest accepted PNG scale factor.
	MaxScale = 8.0
)

// DefaultStyle is the default palette.
const DefaultStyle = styles.Default

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatDiagram = "diagram"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatDiagram: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the preview pipeline.
// This struct supports JSON serialization for service requests.
type Options struct {
	// Layout options. A frame size, when set, wins over the screen size.
	ScreenWidth    float64 `json:"screen_width,omitempty"`
	ScreenHeight   float64 `json:"screen_height,omitempty"`
	FrameWidth     float64 `json:"frame_width,omitempty"`
	FrameHeight    float64 `json:"frame_height,omitempty"`
	LabelRadius    float64 `json:"label_radius,omitempty"`
	DwellThreshold int     `json:"dwell_threshold,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Title    string   `json:"title,omitempty"`
	NoFrame  bool     `json:"no_frame,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Step parameters in diagram labels

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Gesture is the gesture that was laid out.
	Gesture gesture.Gesture

	// GestureHash is the content hash of the gesture.
	GestureHash string

	// Layout is the computed scene.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StepCount      int
	HighDwellCount int
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return gserrors.New(gserrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json, dot, diagram)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a palette with the given name exists.
func ValidateStyle(style string) error {
	_, err := styles.Lookup(style)
	return err
}

// ValidateScale checks that a PNG scale factor is in (0, MaxScale].
func ValidateScale(scale float64) error {
	if !(scale > 0 && scale <= MaxScale) || math.IsNaN(scale) {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, scale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.FrameWidth == 0 && o.FrameHeight == 0 {
		if o.ScreenWidth == 0 {
			o.ScreenWidth = DefaultScreenWidth
		}
		if o.ScreenHeight == 0 {
			o.ScreenHeight = DefaultScreenHeight
		}
		f := layout.FrameFromScreen(o.ScreenWidth, o.ScreenHeight)
		o.FrameWidth, o.FrameHeight = f.Width, f.Height
	}
	if o.LabelRadius == 0 {
		o.LabelRadius = layout.LabelRadius
	}
	if o.DwellThreshold == 0 {
		o.DwellThreshold = gesture.DwellThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Frame().Validate(); err != nil {
		return err
	}
	if !(o.LabelRadius > 0) || math.IsInf(o.LabelRadius, 1) {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "label radius must be positive, got %g", o.LabelRadius)
	}
	if o.DwellThreshold < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "dwell threshold must not be negative, got %d", o.DwellThreshold)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return ValidateScale(o.Scale)
}

// Frame returns the reference frame the options describe. Call
// SetLayoutDefaults first when the sizes may be unset.
func (o *Options) Frame() layout.Frame {
	return layout.Frame{Width: o.FrameWidth, Height: o.FrameHeight}
}

// LayoutOptions returns the engine options for this configuration.
func (o *Options) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithLabelRadius(o.LabelRadius),
		layout.WithDwellThreshold(o.DwellThreshold),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		FrameWidth:     o.FrameWidth,
		FrameHeight:    o.FrameHeight,
		LabelRadius:    o.LabelRadius,
		DwellThreshold: o.DwellThreshold,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Layout:   o.LayoutKeyOpts(),
		Format:   format,
		Style:    o.Style,
		Scale:    o.Scale,
		Title:    o.Title,
		NoFrame:  o.NoFrame,
		Detailed: o.Detailed,
	}
}
