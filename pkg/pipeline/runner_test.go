package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/gazestep/pkg/cache"
	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/observability"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func zoomGesture() gesture.Gesture {
	return gesture.Gesture{
		Name:    "Zoom in",
		Enabled: true,
		Steps: []gesture.Step{
			gesture.Fixation{Radius: 10, DwellMillis: 200},
			gesture.LookInDirection{DX: 40},
			gesture.ReturnToFixation{Radius: 10},
		},
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	res, err := runner.Execute(ctx, zoomGesture(), Options{Formats: []string{"svg", "json", "dot"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.StepCount != 3 {
		t.Errorf("StepCount = %d, want 3", res.Stats.StepCount)
	}
	if res.Stats.HighDwellCount != 1 {
		t.Errorf("HighDwellCount = %d, want 1", res.Stats.HighDwellCount)
	}
	if res.GestureHash == "" {
		t.Error("GestureHash should be set")
	}
	if got := len(res.Layout.Shapes); got != 3 {
		t.Errorf("len(Shapes) = %d, want 3", got)
	}
	if res.Layout.Frame != (layout.Frame{Width: 320, Height: 180}) {
		t.Errorf("Frame = %v, want default 320x180", res.Layout.Frame)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want no hits with the null cache", res.CacheInfo)
	}

	for _, f := range []string{"svg", "json", "dot"} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %.40s", res.Artifacts["svg"])
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact does not start with digraph: %.40s", res.Artifacts["dot"])
	}
	var doc struct {
		Name  string `json:"name"`
		Style string `json:"style"`
	}
	if err := json.Unmarshal(res.Artifacts["json"], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.Name != "Zoom in" || doc.Style != DefaultStyle {
		t.Errorf("json artifact name/style = %q/%q", doc.Name, doc.Style)
	}
}

func TestExecuteDoesNotRecordFixation(t *testing.T) {
	g := zoomGesture()
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if g.FixationPoint != nil {
		t.Error("Execute() must not modify the gesture")
	}
	if res.Layout.Fixation == nil {
		t.Fatal("Layout.Fixation should be set")
	}
	g.RecordFixation(res.Layout.Fixation)
	if g.FixationPoint == nil || *g.FixationPoint != *res.Layout.Fixation {
		t.Errorf("RecordFixation() = %v, want %v", g.FixationPoint, res.Layout.Fixation)
	}
}

func TestExecutePrecedence(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	g := gesture.Gesture{Name: "bad", Steps: []gesture.Step{gesture.ReturnToFixation{Radius: 5}}}

	_, err := runner.Execute(context.Background(), g, Options{})
	if err == nil {
		t.Fatal("Execute() should fail for a return before any fixation")
	}
	var perr *layout.PrecedenceError
	if !errors.As(err, &perr) || perr.Index != 0 {
		t.Errorf("Execute() error = %v, want PrecedenceError at 0", err)
	}
	if !gserrors.Is(err, gserrors.ErrCodePrecedence) {
		t.Errorf("GetCode() = %v, want %v", gserrors.GetCode(err), gserrors.ErrCodePrecedence)
	}
	if c.sets != 0 {
		t.Errorf("cache writes = %d, want 0", c.sets)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), zoomGesture(), Options{Formats: []string{"gif"}})
	if !gserrors.Is(err, gserrors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() error = %v, want INVALID_FORMAT", err)
	}
}

func TestLayoutCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)
	g := zoomGesture()

	first, hit, err := runner.LayoutWithCacheInfo(ctx, g, Options{})
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error: %v", err)
	}
	if hit {
		t.Error("first layout should miss")
	}

	second, hit, err := runner.LayoutWithCacheInfo(ctx, g, Options{})
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error: %v", err)
	}
	if !hit {
		t.Error("second layout should hit")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached layout differs:\n got %+v\nwant %+v", second, first)
	}

	// A different frame is a different entry.
	_, hit, err = runner.LayoutWithCacheInfo(ctx, g, Options{FrameWidth: 640, FrameHeight: 360})
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error: %v", err)
	}
	if hit {
		t.Error("layout with another frame should miss")
	}

	// Refresh bypasses reads.
	_, hit, _ = runner.LayoutWithCacheInfo(ctx, g, Options{Refresh: true})
	if hit {
		t.Error("refresh should not hit")
	}

	// An edited gesture is a different entry.
	g.Steps = append(g.Steps, gesture.LookInDirection{DY: 10})
	_, hit, _ = runner.LayoutWithCacheInfo(ctx, g, Options{})
	if hit {
		t.Error("edited gesture should miss")
	}
}

func TestRenderCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)
	g := zoomGesture()
	opts := Options{Formats: []string{"svg", "json"}}

	res, err := runner.Layout(ctx, g, opts)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	first, hit, err := runner.RenderWithCacheInfo(ctx, res, g, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}

	second, hit, err := runner.RenderWithCacheInfo(ctx, res, g, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error: %v", err)
	}
	if !hit {
		t.Error("second render should hit")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached artifacts differ")
	}

	// Adding a format that is not cached re-renders everything.
	_, hit, err = runner.RenderWithCacheInfo(ctx, res, g, Options{Formats: []string{"svg", "dot"}})
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error: %v", err)
	}
	if hit {
		t.Error("partially cached render should miss")
	}

	// Another palette is another artifact.
	_, hit, _ = runner.RenderWithCacheInfo(ctx, res, g, Options{Formats: []string{"svg"}, Style: "contrast"})
	if hit {
		t.Error("render with another style should miss")
	}
}

func TestRenderRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := layout.Build(zoomGesture(), layout.Frame{Width: 320, Height: 180})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	opts := Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	if _, err := Render(ctx, res, zoomGesture(), opts); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRunnerWithFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(fc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "test"), nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, zoomGesture(), Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res, err := runner.Execute(ctx, zoomGesture(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.CacheInfo.LayoutHit || !res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want both hits", res.CacheInfo)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnDecode(_ context.Context, e observability.DecodeEvent) {
	h.record(fmt.Sprintf("decode:%d", e.Gestures))
}
func (h *recordingHooks) OnLayoutStart(context.Context, string, int) { h.record("layout-start") }
func (h *recordingHooks) OnLayout(_ context.Context, e observability.LayoutEvent) {
	if e.Err != nil {
		h.record("layout-error:" + e.Gesture)
		return
	}
	h.record(fmt.Sprintf("layout:%s:%d", e.Gesture, e.Steps))
}
func (h *recordingHooks) OnRenderStart(_ context.Context, g string, _ []string) {
	h.record("render-start:" + g)
}
func (h *recordingHooks) OnRender(_ context.Context, e observability.RenderEvent) {
	h.record(fmt.Sprintf("render:%v:%t", e.Bytes > 0, e.Cached))
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	runner := NewRunner(nil, nil, nil)
	doc, err := runner.DecodeReader(context.Background(), strings.NewReader(`{"gestures":[{"name":"Zoom","steps":[{"type":"Fixation","radius":5}]}]}`), gesture.FormatJSON, "inline")
	if err != nil {
		t.Fatalf("DecodeReader() error: %v", err)
	}
	if _, err := runner.Execute(context.Background(), doc.Gestures[0], Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	_, _ = runner.Layout(context.Background(), gesture.Gesture{Name: "bad", Steps: []gesture.Step{gesture.ReturnToFixation{}}}, Options{})

	want := []string{
		"decode:1",
		"layout-start", "layout:Zoom:1",
		"render-start:Zoom", "render:true:false",
		"layout-start", "layout-error:bad",
	}
	if !reflect.DeepEqual(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gestures.yaml")
	data := "gestures:\n  - name: Corner\n    steps:\n      - type: LookAtArea\n        left: 10\n        top: 10\n        width: 20\n        height: 20\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil, nil)
	doc, err := runner.Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(doc.Gestures) != 1 || doc.Gestures[0].Name != "Corner" {
		t.Errorf("Decode() gestures = %+v", doc.Gestures)
	}

	if _, err := runner.Decode(context.Background(), filepath.Join(dir, "missing.xml")); !gserrors.Is(err, gserrors.ErrCodeFileNotFound) {
		t.Errorf("Decode(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := runner.Decode(context.Background(), filepath.Join(dir, "gestures.txt")); !gserrors.Is(err, gserrors.ErrCodeInvalidPath) {
		t.Errorf("Decode(.txt) error = %v, want INVALID_PATH", err)
	}
}

func TestExecuteOutOfRangeGesture(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	doc, err := runner.DecodeReader(ctx, strings.NewReader(
		`{"gestures":[{"name":"Far","steps":[{"type":"LookInDirection","x":1e308}]}]}`), gesture.FormatJSON, "inline")
	if err != nil {
		t.Fatalf("DecodeReader() error: %v", err)
	}
	res, err := runner.Execute(ctx, doc.Gestures[0], Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Artifacts["svg"]) == 0 || len(res.Artifacts["json"]) == 0 {
		t.Error("Execute() should render every requested format")
	}

	_, err = runner.DecodeReader(ctx, strings.NewReader(
		`<EyeGestures><Gestures><EyeGesture Name="Blur"><Steps><EyeGestureStep Type="Fixation" Radius="NaN"/></Steps></EyeGesture></Gestures></EyeGestures>`),
		gesture.FormatXML, "inline.xml")
	if !gserrors.Is(err, gserrors.ErrCodeInvalidGesture) {
		t.Errorf("DecodeReader() error = %v, want code %v", err, gserrors.ErrCodeInvalidGesture)
	}

	nan := gesture.Gesture{Name: "Blur", Steps: []gesture.Step{gesture.Fixation{Radius: math.NaN()}}}
	if _, err := runner.Execute(ctx, nan, Options{}); !gserrors.Is(err, gserrors.ErrCodeInvalidGesture) {
		t.Errorf("Execute() error = %v, want code %v", err, gserrors.ErrCodeInvalidGesture)
	}
}
