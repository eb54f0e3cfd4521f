package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

func sampleGesture() gesture.Gesture {
	return gesture.Gesture{
		Name: "Scroll",
		Steps: []gesture.Step{
			gesture.Fixation{Radius: 5, DwellMillis: 150},
			gesture.LookInDirection{DY: 40},
			gesture.LookAtArea{Left: 10, Top: 10, Width: 20, Height: 20, Round: true},
			gesture.ReturnToFixation{Radius: 5},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGesture(), Options{})

	checks := []string{
		"digraph G {",
		"rankdir=LR;",
		`label="Scroll";`,
		`s1 [label="1. Fixation", fillcolor="#f08080", shape=circle];`,
		`s2 [label="2. LookInDirection", fillcolor="#228b22"];`,
		"s1 -> s2;",
		"s3 -> s4;",
		"s4 -> s1 [style=dashed, constraint=false];",
	}
	for _, want := range checks {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, " -> "); got != 4 {
		t.Errorf("edges = %d, want 3 chain + 1 return", got)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleGesture(), Options{Detailed: true, Palette: &styles.Contrast})

	for _, want := range []string{
		`"1. Fixation\nradius: 5%\ndwell: 150ms"`,
		`"2. LookInDirection\ndx: 0%\ndy: 40%"`,
		`"3. LookAtArea\narea: 10,10 20x20%\nround"`,
		`fillcolor="#d55e00"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTUnmatchedReturn(t *testing.T) {
	g := gesture.Gesture{Steps: []gesture.Step{gesture.ReturnToFixation{Radius: 5}}}
	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "color=red") {
		t.Error("unmatched return should be outlined in red")
	}
	if strings.Contains(dot, "->") {
		t.Error("single step should have no edges")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %q, want prefix %q", out, want)
	}
	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox = %q", got)
	}
}
