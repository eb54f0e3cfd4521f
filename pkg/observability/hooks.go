// Package observability lets an application watch the preview pipeline, the
// cache and the preview service without those packages depending on any
// metrics or tracing library.
//
// Each area has a hook interface with a no-op default. The binary registers
// its own implementations once at startup; libraries only emit:
//
//	observability.Pipeline().OnLayoutStart(ctx, g.Name, len(g.Steps))
//	res, err := layout.Build(g, frame)
//	observability.Pipeline().OnLayout(ctx, observability.LayoutEvent{
//	    Gesture: g.Name, Steps: len(g.Steps), Duration: time.Since(start), Err: err,
//	})
//
// The gazestep CLI registers hooks that log every event under --verbose.
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names what a cache entry holds.
type Stage string

const (
	StageLayout   Stage = "layout"
	StageArtifact Stage = "artifact"
)

// DecodeEvent describes a finished document decode.
type DecodeEvent struct {
	Source   string
	Gestures int
	Duration time.Duration
	Err      error
}

// LayoutEvent describes a finished layout of one gesture.
type LayoutEvent struct {
	Gesture   string
	Steps     int
	HighDwell int
	Cached    bool
	Duration  time.Duration
	Err       error
}

// RenderEvent describes the artifacts produced for one gesture.
type RenderEvent struct {
	Gesture  string
	Formats  []string
	Bytes    int
	Cached   bool
	Duration time.Duration
	Err      error
}

// Request identifies one call to the preview service.
type Request struct {
	ID     string
	Method string
	Path   string
}

// PipelineHooks receives events from the preview pipeline.
type PipelineHooks interface {
	OnDecode(ctx context.Context, e DecodeEvent)
	OnLayoutStart(ctx context.Context, gesture string, steps int)
	OnLayout(ctx context.Context, e LayoutEvent)
	OnRenderStart(ctx context.Context, gesture string, formats []string)
	OnRender(ctx context.Context, e RenderEvent)
}

// CacheHooks receives cache lookups and writes.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, stage Stage)
	OnCacheMiss(ctx context.Context, stage Stage)
	OnCacheSet(ctx context.Context, stage Stage, size int)
}

// ServerHooks receives events from the preview service.
type ServerHooks interface {
	OnRequest(ctx context.Context, r Request)
	OnResponse(ctx context.Context, r Request, status int, d time.Duration)
	// OnRateLimited is called for a request rejected with 429.
	OnRateLimited(ctx context.Context, r Request, client string)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecode(context.Context, DecodeEvent)           {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)      {}
func (NoopPipelineHooks) OnLayout(context.Context, LayoutEvent)           {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, []string) {}
func (NoopPipelineHooks) OnRender(context.Context, RenderEvent)           {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, Stage)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, Stage)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, Stage, int) {}

type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, Request)                      {}
func (NoopServerHooks) OnResponse(context.Context, Request, int, time.Duration) {}
func (NoopServerHooks) OnRateLimited(context.Context, Request, string)          {}

// slot holds one registered hook set.
type slot[T comparable] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T comparable](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set ignores the zero value, so a nil interface never replaces the hooks.
func (s *slot[T]) set(h T) {
	var zero T
	if h == zero {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot   = newSlot[ServerHooks](NoopServerHooks{})
)

// SetPipelineHooks registers h. Call it before any pipeline work; nil is
// ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

func SetServerHooks(h ServerHooks) { serverSlot.set(h) }

func Pipeline() PipelineHooks { return pipelineSlot.get() }

func Cache() CacheHooks { return cacheSlot.get() }

func Server() ServerHooks { return serverSlot.get() }

// Reset restores every no-op default. Tests call it in t.Cleanup.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}
