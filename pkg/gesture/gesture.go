// Package gesture defines eye gestures: named, ordered sequences of gaze steps
// that an eye tracker recognizes as one compound command.
//
// A [Step] is a closed sum type with one variant per kind of movement. Each
// variant carries only the fields it needs:
//
//   - [Fixation]: hold the gaze on the current point
//   - [LookInDirection]: move the gaze by a percentage of the frame
//   - [LookAtArea]: move the gaze into a rectangle of the frame
//   - [ReturnToFixation]: move the gaze back to the last fixation point
//
// Percent-valued fields are relative to the reference frame used when the
// gesture is laid out, never to the canvas a renderer draws on.
//
// Gestures are read from documents with [ReadFile] or [Decode]. Managing a
// collection of gestures (adding, removing, reordering, saving) is left to
// the application that owns the document.
package gesture

import (
	"fmt"
	"math"
	"strings"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/geom"
)

// DwellThreshold is the dwell time, in milliseconds, above which a step is
// drawn with the high-dwell emphasis.
const DwellThreshold = 100

// Kind identifies the variant of a [Step].
type Kind int

const (
	KindFixation Kind = iota
	KindLookInDirection
	KindLookAtArea
	KindReturnToFixation
)

var kindNames = [...]string{
	KindFixation:         "Fixation",
	KindLookInDirection:  "LookInDirection",
	KindLookAtArea:       "LookAtArea",
	KindReturnToFixation: "ReturnToFixation",
}

// String returns the document spelling of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a step type name. Matching ignores case and any
// separators, so "look-in-direction" and "LookInDirection" are equivalent.
func ParseKind(s string) (Kind, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for k, name := range kindNames {
		if strings.ToLower(name) == norm {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown step type %q", s)
}

// Step is one instruction of a gesture.
type Step interface {
	Kind() Kind
	isStep()
}

// Dweller is implemented by steps whose dwell time selects their emphasis.
type Dweller interface {
	Dwell() int
}

// Fixation holds the gaze on the current point. Radius is a percentage of the
// frame height.
type Fixation struct {
	Radius      float64
	DwellMillis int
}

// LookInDirection moves the gaze by DX percent of the frame width and DY
// percent of the frame height.
type LookInDirection struct {
	DX, DY float64
}

// LookAtArea moves the gaze into a rectangle given in percent of the frame.
// Round draws the rectangle as a pill.
type LookAtArea struct {
	Left, Top     float64
	Width, Height float64
	Round         bool
	DwellMillis   int
}

// ReturnToFixation moves the gaze back to the most recent fixation point.
type ReturnToFixation struct {
	Radius      float64
	DwellMillis int
}

func (Fixation) Kind() Kind         { return KindFixation }
func (LookInDirection) Kind() Kind  { return KindLookInDirection }
func (LookAtArea) Kind() Kind       { return KindLookAtArea }
func (ReturnToFixation) Kind() Kind { return KindReturnToFixation }

func (Fixation) isStep()         {}
func (LookInDirection) isStep()  {}
func (LookAtArea) isStep()       {}
func (ReturnToFixation) isStep() {}

func (s Fixation) Dwell() int         { return s.DwellMillis }
func (s LookAtArea) Dwell() int       { return s.DwellMillis }
func (s ReturnToFixation) Dwell() int { return s.DwellMillis }

// HighDwell reports whether s is a dwell target held longer than
// [DwellThreshold]. Directional steps are never dwell targets.
func HighDwell(s Step) bool {
	d, ok := s.(Dweller)
	return ok && d.Dwell() > DwellThreshold
}

// Gesture is a named sequence of steps.
//
// FixationPoint is derived state: the point the last layout pass resolved for
// the gesture's fixation. It is nil until a caller records a layout with
// [Gesture.RecordFixation].
type Gesture struct {
	Name          string
	Enabled       bool
	Steps         []Step
	FixationPoint *geom.Point
}

// RecordFixation stores the fixation point produced by a layout pass.
// Passing nil clears it. Callers must not record concurrently on the same
// gesture.
func (g *Gesture) RecordFixation(p *geom.Point) {
	if p == nil {
		g.FixationPoint = nil
		return
	}
	cp := *p
	g.FixationPoint = &cp
}

// Validate rejects steps with a NaN or infinite field. Such a gesture cannot
// be hashed, laid out or encoded.
func (g Gesture) Validate() error {
	for i, s := range g.Steps {
		if err := CheckStep(s); err != nil {
			return gserrors.Wrap(gserrors.ErrCodeInvalidGesture, err, "%s: step %d", g.Name, i+1)
		}
	}
	return nil
}

// CheckStep reports the first field of s that is not a finite number.
func CheckStep(s Step) error {
	type field struct {
		name string
		v    float64
	}
	var fields []field
	switch v := s.(type) {
	case Fixation:
		fields = []field{{"radius", v.Radius}}
	case LookInDirection:
		fields = []field{{"x", v.DX}, {"y", v.DY}}
	case LookAtArea:
		fields = []field{{"left", v.Left}, {"top", v.Top}, {"width", v.Width}, {"height", v.Height}}
	case ReturnToFixation:
		fields = []field{{"radius", v.Radius}}
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s %s must be a finite number, got %g", s.Kind(), f.name, f.v)
		}
	}
	return nil
}

// CountKind returns how many steps of kind k the gesture has.
func (g Gesture) CountKind(k Kind) int {
	n := 0
	for _, s := range g.Steps {
		if s.Kind() == k {
			n++
		}
	}
	return n
}

// Summary renders the step kinds as a compact arrow-separated list.
func (g Gesture) Summary() string {
	parts := make([]string, len(g.Steps))
	for i, s := range g.Steps {
		parts[i] = s.Kind().String()
	}
	return strings.Join(parts, " → ")
}
