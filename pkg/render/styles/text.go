package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// EscapeXML escapes s for SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// LabelFontSize is the font size of a step number drawn in a label disc of
// the given radius. Numbers of three or more digits shrink so they stay
// inside the disc.
func LabelFontSize(radius float64, number int) float64 {
	switch digits := len(strconv.Itoa(number)); {
	case digits <= 1:
		return radius
	case digits == 2:
		return radius * 0.85
	default:
		return radius * 1.7 / float64(digits)
	}
}
