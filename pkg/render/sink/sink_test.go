package sink

import (
	"testing"

	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
)

var testFrame = layout.Frame{Width: 320, Height: 180}

func testResult(t *testing.T) layout.Result {
	t.Helper()
	g := gesture.Gesture{
		Name: "Zoom <in>",
		Steps: []gesture.Step{
			gesture.Fixation{Radius: 10, DwellMillis: 200},
			gesture.LookInDirection{DX: 40},
			gesture.ReturnToFixation{Radius: 10},
		},
	}
	res, err := layout.Build(g, testFrame)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return res
}

func emptyResult(t *testing.T) layout.Result {
	t.Helper()
	res, err := layout.Build(gesture.Gesture{Name: "empty"}, testFrame)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return res
}
