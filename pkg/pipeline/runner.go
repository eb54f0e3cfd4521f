package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gazestep/pkg/cache"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/layout"
	"github.com/matzehuels/gazestep/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview service use it to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the layout → render pipeline for one gesture with caching.
//
// The gesture is not modified; callers that keep gestures in memory record
// the returned fixation point themselves with
// [gesture.Gesture.RecordFixation].
func (r *Runner) Execute(ctx context.Context, g gesture.Gesture, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Gesture:   g,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.StepCount = len(g.Steps)
	if hash, err := gestureHash(g); err == nil {
		result.GestureHash = hash
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.HighDwellCount = res.HighDwellCount()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"gesture", g.Name,
		"steps", len(res.Shapes),
		"canvas", fmt.Sprintf("%gx%g", res.Bounds.Width, res.Bounds.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"gesture", g.Name,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out a gesture with caching and returns cache hit
// info. A gesture whose first ReturnToFixation precedes every Fixation fails
// with a [*layout.PrecedenceError] and nothing is cached.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g gesture.Gesture, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	if err := g.Validate(); err != nil {
		return layout.Result{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.Name, len(g.Steps))
	start := time.Now()
	done := func(res layout.Result, cached bool, err error) {
		hooks.OnLayout(ctx, observability.LayoutEvent{
			Gesture:   g.Name,
			Steps:     len(g.Steps),
			HighDwell: res.HighDwellCount(),
			Cached:    cached,
			Duration:  time.Since(start),
			Err:       err,
		})
	}

	hash, err := gestureHash(g)
	if err != nil {
		done(layout.Result{}, false, err)
		return layout.Result{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, observability.StageLayout)
				done(cached, true, nil)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, observability.StageLayout)
	}

	res, err := layout.Build(g, opts.Frame(), opts.LayoutOptions()...)
	done(res, false, err)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); err == nil {
			observability.Cache().OnCacheSet(ctx, observability.StageLayout, len(data))
		} else {
			opts.Logger.Warn("layout cache write failed", "key", cacheKey, "error", err)
		}
	}

	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g gesture.Gesture, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is true only when every requested format came from the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, g gesture.Gesture, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := g.Validate(); err != nil {
		return nil, false, err
	}

	// Scene formats depend on the layout, diagram formats on the gesture.
	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	gestureData, err := gesture.MarshalGesture(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize gesture for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(append(layoutData, gestureData...))

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, observability.StageArtifact)
			observability.Pipeline().OnRender(ctx, observability.RenderEvent{
				Gesture: g.Name,
				Formats: opts.Formats,
				Bytes:   totalBytes(artifacts),
				Cached:  true,
			})
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, observability.StageArtifact)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, g.Name, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, res, g, opts)
	hooks.OnRender(ctx, observability.RenderEvent{
		Gesture:  g.Name,
		Formats:  opts.Formats,
		Bytes:    totalBytes(rendered),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, observability.StageArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, g gesture.Gesture, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func gestureHash(g gesture.Gesture) (string, error) {
	data, err := gesture.MarshalGesture(g)
	if err != nil {
		return "", fmt.Errorf("serialize gesture: %w", err)
	}
	return cache.Hash(data), nil
}

func totalBytes(artifacts map[string][]byte) int {
	n := 0
	for _, data := range artifacts {
		n += len(data)
	}
	return n
}
