// Package pkg provides the core libraries for gazestep eye-gesture previews.
//
// # Overview
//
// gazestep turns an eye gesture, an ordered list of fixations, glances and
// area looks, into an annotated diagram: every step becomes a coloured shape
// with a numbered label, labels are joined in order, and the canvas grows
// until no label is clipped. The pkg directory is organized as:
//
//  1. [gesture] - Step and gesture types, document decoding
//  2. [layout] - The layout engine (frame, shapes, connectors, bounds)
//  3. [render] - Output formats (SVG, PNG, JSON, Graphviz)
//  4. [pipeline] - Orchestration (decode → layout → render) with caching
//  5. [cache] - File, Redis and no-op caches plus key derivation
//
// # Architecture
//
//	Gesture document (XML, JSON, YAML, TOML)
//	         ↓
//	    [gesture] package (decode + validate)
//	         ↓
//	    [layout] package (scene in frame and canvas coordinates)
//	         ↓
//	    [render] packages (sinks + node-link diagrams)
//	         ↓
//	    SVG/PNG/JSON/DOT output
//
// # Quick Start
//
//	doc, _ := gesture.ReadFile("gestures.xml")
//	g, _ := doc.Find("Scroll down")
//
//	res, err := layout.Build(*g, layout.FrameFromScreen(1920, 1080))
//	if err != nil {
//	    // a ReturnToFixation step came before any Fixation
//	}
//	svg := sink.RenderSVG(res, sink.WithTitle(g.Name))
//
// Most callers go through [pipeline.Runner] instead, which adds option
// defaults, caching and observability hooks.
//
// # Supporting Packages
//
// [geom] holds points and rectangles, [errors] the coded error type shared by
// the CLI and the preview service, [config] the user config file,
// [observability] the hook interfaces, [fonts] the embedded label font and
// [buildinfo] the version stamped in at link time.
//
// [gesture]: github.com/matzehuels/gazestep/pkg/gesture
// [layout]: github.com/matzehuels/gazestep/pkg/layout
// [render]: github.com/matzehuels/gazestep/pkg/render
// [pipeline]: github.com/matzehuels/gazestep/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/gazestep/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/gazestep/pkg/cache
// [geom]: github.com/matzehuels/gazestep/pkg/geom
// [errors]: github.com/matzehuels/gazestep/pkg/errors
// [config]: github.com/matzehuels/gazestep/pkg/config
// [observability]: github.com/matzehuels/gazestep/pkg/observability
// [fonts]: github.com/matzehuels/gazestep/pkg/fonts
// [buildinfo]: github.com/matzehuels/gazestep/pkg/buildinfo
package pkg
