package gesture

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
)

// Format is a gesture document encoding.
type Format string

// Supported document formats.
const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", gserrors.New(gserrors.ErrCodeInvalidPath, "unsupported document extension %q", filepath.Ext(path))
	}
}

// Document is a decoded collection of gestures in file order.
type Document struct {
	Gestures []Gesture
}

// Find returns the first gesture with the given name. Matching ignores case.
func (d *Document) Find(name string) (*Gesture, bool) {
	for i := range d.Gestures {
		if strings.EqualFold(d.Gestures[i].Name, name) {
			return &d.Gestures[i], true
		}
	}
	return nil, false
}

// Sorted returns the gestures ordered by name. The document is not modified.
func (d *Document) Sorted() []Gesture {
	out := slices.Clone(d.Gestures)
	slices.SortStableFunc(out, func(a, b Gesture) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// Enabled returns the enabled gestures in document order.
func (d *Document) Enabled() []Gesture {
	var out []Gesture
	for _, g := range d.Gestures {
		if g.Enabled {
			out = append(out, g)
		}
	}
	return out
}

// documentRecord is the on-disk shape shared by every format. The XML
// spelling matches the EyeGestures documents eye-tracking keyboards write.
type documentRecord struct {
	XMLName  xml.Name        `json:"-" yaml:"-" toml:"-" xml:"EyeGestures"`
	Gestures []gestureRecord `json:"gestures" yaml:"gestures" toml:"gestures" xml:"Gestures>EyeGesture"`
}

type gestureRecord struct {
	Name    string       `json:"name" yaml:"name" toml:"name" xml:"Name,attr"`
	Enabled *bool        `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty" xml:"Enabled,attr,omitempty"`
	Steps   []stepRecord `json:"steps" yaml:"steps" toml:"steps" xml:"Steps>EyeGestureStep"`
}

type stepRecord struct {
	Type      string  `json:"type" yaml:"type" toml:"type" xml:"Type,attr"`
	Radius    float64 `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty" xml:"Radius,attr,omitempty"`
	DwellTime int     `json:"dwell_time,omitempty" yaml:"dwell_time,omitempty" toml:"dwell_time,omitempty" xml:"DwellTime,attr,omitempty"`
	X         float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty" xml:"X,attr,omitempty"`
	Y         float64 `json:"y,omitempty" yaml:"y,omitempty" toml:"y,omitempty" xml:"Y,attr,omitempty"`
	Left      float64 `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty" xml:"Left,attr,omitempty"`
	Top       float64 `json:"top,omitempty" yaml:"top,omitempty" toml:"top,omitempty" xml:"Top,attr,omitempty"`
	Width     float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" xml:"Width,attr,omitempty"`
	Height    float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty" xml:"Height,attr,omitempty"`
	Round     bool    `json:"round,omitempty" yaml:"round,omitempty" toml:"round,omitempty" xml:"Round,attr,omitempty"`
}

// ReadFile decodes the gesture document at path, choosing the format from
// the file extension.
func ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a gesture document in the given format from r.
//
// Every step type must be known and every gesture must carry a valid name;
// the first violation is returned wrapped with the gesture and step position.
// Numeric fields are passed through unchanged: the layout engine, not the
// decoder, decides how degenerate sizes are drawn.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var rec documentRecord
	switch format {
	case FormatXML:
		err = xml.Unmarshal(data, &rec)
	case FormatJSON:
		if err := ValidateJSONDocument(data); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&rec)
	case FormatYAML:
		err = yaml.Unmarshal(data, &rec)
	case FormatTOML:
		_, err = toml.Decode(string(data), &rec)
	default:
		return nil, gserrors.New(gserrors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidDocument, err, "decode %s document", format)
	}

	doc := &Document{Gestures: make([]Gesture, 0, len(rec.Gestures))}
	for i, gr := range rec.Gestures {
		g, err := gr.toGesture()
		if err != nil {
			return nil, fmt.Errorf("gesture %d: %w", i+1, err)
		}
		doc.Gestures = append(doc.Gestures, g)
	}
	return doc, nil
}

// UnmarshalGesture decodes a single gesture from its JSON document form.
func UnmarshalGesture(data []byte) (Gesture, error) {
	if err := ValidateJSONGesture(data); err != nil {
		return Gesture{}, err
	}
	var gr gestureRecord
	if err := json.Unmarshal(data, &gr); err != nil {
		return Gesture{}, gserrors.Wrap(gserrors.ErrCodeInvalidDocument, err, "decode gesture")
	}
	return gr.toGesture()
}

// MarshalGesture encodes g in its JSON document form. The output is
// deterministic, which makes it suitable as a content key.
func MarshalGesture(g Gesture) ([]byte, error) {
	return json.Marshal(fromGesture(g))
}

func (gr gestureRecord) toGesture() (Gesture, error) {
	if err := gserrors.ValidateGestureName(gr.Name); err != nil {
		return Gesture{}, err
	}
	g := Gesture{
		Name:    strings.TrimSpace(gr.Name),
		Enabled: gr.Enabled == nil || *gr.Enabled,
		Steps:   make([]Step, 0, len(gr.Steps)),
	}
	for j, sr := range gr.Steps {
		s, err := sr.toStep()
		if err != nil {
			return Gesture{}, gserrors.Wrap(gserrors.ErrCodeInvalidGesture, err, "%s: step %d", g.Name, j+1)
		}
		g.Steps = append(g.Steps, s)
	}
	return g, nil
}

func (sr stepRecord) toStep() (Step, error) {
	s, err := sr.step()
	if err != nil {
		return nil, err
	}
	if err := CheckStep(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (sr stepRecord) step() (Step, error) {
	kind, err := ParseKind(sr.Type)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindFixation:
		return Fixation{Radius: sr.Radius, DwellMillis: sr.DwellTime}, nil
	case KindLookInDirection:
		return LookInDirection{DX: sr.X, DY: sr.Y}, nil
	case KindLookAtArea:
		return LookAtArea{
			Left: sr.Left, Top: sr.Top,
			Width: sr.Width, Height: sr.Height,
			Round:       sr.Round,
			DwellMillis: sr.DwellTime,
		}, nil
	default:
		return ReturnToFixation{Radius: sr.Radius, DwellMillis: sr.DwellTime}, nil
	}
}

func fromGesture(g Gesture) gestureRecord {
	enabled := g.Enabled
	gr := gestureRecord{Name: g.Name, Enabled: &enabled, Steps: make([]stepRecord, len(g.Steps))}
	for i, s := range g.Steps {
		sr := stepRecord{Type: s.Kind().String()}
		switch v := s.(type) {
		case Fixation:
			sr.Radius, sr.DwellTime = v.Radius, v.DwellMillis
		case LookInDirection:
			sr.X, sr.Y = v.DX, v.DY
		case LookAtArea:
			sr.Left, sr.Top, sr.Width, sr.Height = v.Left, v.Top, v.Width, v.Height
			sr.Round, sr.DwellTime = v.Round, v.DwellMillis
		case ReturnToFixation:
			sr.Radius, sr.DwellTime = v.Radius, v.DwellMillis
		}
		gr.Steps[i] = sr
	}
	return gr
}
