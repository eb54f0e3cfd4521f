package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gazestep/pkg/observability"
)

// logHooks reports pipeline, cache and service events at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l.WithPrefix("hooks")}
}

func (h *logHooks) OnDecode(_ context.Context, e observability.DecodeEvent) {
	h.finished("decode", e.Err, "source", e.Source, "gestures", e.Gestures, "duration", e.Duration)
}

func (h *logHooks) OnLayoutStart(_ context.Context, gesture string, steps int) {
	h.logger.Debug("layout start", "gesture", gesture, "steps", steps)
}

func (h *logHooks) OnLayout(_ context.Context, e observability.LayoutEvent) {
	h.finished("layout", e.Err, "gesture", e.Gesture, "steps", e.Steps,
		"high_dwell", e.HighDwell, "cached", e.Cached, "duration", e.Duration)
}

func (h *logHooks) OnRenderStart(_ context.Context, gesture string, formats []string) {
	h.logger.Debug("render start", "gesture", gesture, "formats", formats)
}

func (h *logHooks) OnRender(_ context.Context, e observability.RenderEvent) {
	h.finished("render", e.Err, "gesture", e.Gesture, "formats", e.Formats,
		"bytes", e.Bytes, "cached", e.Cached, "duration", e.Duration)
}

func (h *logHooks) OnCacheHit(_ context.Context, stage observability.Stage) {
	h.logger.Debug("cache hit", "stage", stage)
}

func (h *logHooks) OnCacheMiss(_ context.Context, stage observability.Stage) {
	h.logger.Debug("cache miss", "stage", stage)
}

func (h *logHooks) OnCacheSet(_ context.Context, stage observability.Stage, size int) {
	h.logger.Debug("cache set", "stage", stage, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, r observability.Request) {
	h.logger.Debug("request", "id", r.ID, "method", r.Method, "path", r.Path)
}

func (h *logHooks) OnResponse(_ context.Context, r observability.Request, status int, d time.Duration) {
	h.logger.Debug("response", "id", r.ID, "method", r.Method, "path", r.Path, "status", status, "duration", d)
}

func (h *logHooks) OnRateLimited(_ context.Context, r observability.Request, client string) {
	h.logger.Warn("rate limited", "id", r.ID, "client", client, "path", r.Path)
}

func (h *logHooks) finished(stage string, err error, kv ...any) {
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" complete", kv...)
}
