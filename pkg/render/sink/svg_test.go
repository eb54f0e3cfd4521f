package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/gazestep/pkg/render/styles"
)

func TestRenderSVG(t *testing.T) {
	res := testResult(t)
	svg := string(RenderSVG(res, WithTitle("Zoom <in>")))

	checks := []struct {
		name string
		want string
	}{
		{"root element", `<svg xmlns="http://www.w3.org/2000/svg"`},
		{"escaped title", "<title>Zoom &lt;in&gt;</title>"},
		{"black background", `fill="#000000"`},
		{"light blue frame", `class="frame"`},
		{"high dwell fill", `fill="#f08080"`},
		{"normal fill", `fill="#228b22"`},
		{"shape opacity", `fill-opacity="0.50"`},
		{"clip to canvas", `clip-path="url(#canvas)"`},
		{"numbered label", ">3</text>"},
	}
	for _, c := range checks {
		if !strings.Contains(svg, c.want) {
			t.Errorf("%s: output missing %q", c.name, c.want)
		}
	}

	if got := strings.Count(svg, `class="connector"`); got != 2 {
		t.Errorf("connectors = %d, want 2", got)
	}
	if got := strings.Count(svg, `class="label"`); got != 3 {
		t.Errorf("labels = %d, want 3", got)
	}
	if got := strings.Count(svg, `class="step `); got != 3 {
		t.Errorf("shapes = %d, want 3", got)
	}
}

func TestRenderSVGCanvasSize(t *testing.T) {
	res := testResult(t)
	svg := string(RenderSVG(res))

	// 320x180 frame with default 1.4x bounds.
	if !strings.Contains(svg, `viewBox="0 0 448.00 252.00"`) {
		t.Errorf("unexpected viewBox in %q", svg[:120])
	}
}

func TestRenderSVGOptions(t *testing.T) {
	res := testResult(t)
	svg := string(RenderSVG(res, WithoutFrame(), WithStyle(styles.Contrast)))

	if strings.Contains(svg, `class="frame"`) {
		t.Error("WithoutFrame() should omit the reference screen")
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("contrast palette should use a white background")
	}
	if strings.Contains(svg, "<title>") {
		t.Error("no title requested")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(emptyResult(t)))
	if strings.Contains(svg, "<line") || strings.Contains(svg, "<circle") {
		t.Error("empty gesture should draw no connectors or labels")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("document not closed")
	}
}
