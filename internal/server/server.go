// Package server implements the HTTP preview service behind "gazestep serve".
//
// Routes:
//
//	GET  /healthz              liveness and build information
//	GET  /v1/styles            available palettes
//	POST /v1/layout            scene of one gesture as JSON
//	POST /v1/render?format=svg artifact of one gesture
//
// With [WithRateLimit] the /v1 routes answer 429 once a client address
// exceeds its budget.
//
// Both POST routes take {"gesture": {...}, "options": {...}} where gesture
// uses the JSON document form of a single gesture and options overrides the
// service defaults field by field.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/gazestep/pkg/buildinfo"
	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/observability"
	"github.com/matzehuels/gazestep/pkg/pipeline"
	"github.com/matzehuels/gazestep/pkg/render/sink"
	"github.com/matzehuels/gazestep/pkg/render/styles"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20

	// requestTimeout bounds a single layout or render.
	requestTimeout = 30 * time.Second

	headerRequestID = "X-Request-ID"
	headerCache     = "X-Cache"
)

// Server serves gesture previews over HTTP.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	limiter  *rateLimiter
}

// Option configures a [Server].
type Option func(*Server)

// WithRateLimit limits each client address to rps requests per second on the
// /v1 routes, with bursts of up to burst requests. A non-positive rps leaves
// the service unlimited; a non-positive burst defaults to rps rounded.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = newRateLimiter(rps, burst)
		}
	}
}

// New returns a server that renders through runner. Request options are
// layered on top of defaults.
func New(runner *pipeline.Runner, logger *log.Logger, defaults pipeline.Options, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, defaults: defaults}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware(s))
		}
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/styles", s.handleStyles)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, gserrors.New(gserrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "", "method "+r.Method+" not allowed")
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("preview service listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"styles": styles.Names(), "default": styles.Default})
}

// previewRequest is the body of the POST routes.
type previewRequest struct {
	Gesture json.RawMessage  `json:"gesture"`
	Options pipeline.Options `json:"options"`
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (gesture.Gesture, pipeline.Options, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return gesture.Gesture{}, pipeline.Options{}, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if len(req.Gesture) == 0 {
		return gesture.Gesture{}, pipeline.Options{}, gserrors.New(gserrors.ErrCodeInvalidInput, "missing required field: gesture")
	}
	g, err := gesture.UnmarshalGesture(req.Gesture)
	if err != nil {
		return gesture.Gesture{}, pipeline.Options{}, err
	}
	opts := mergeOptions(s.defaults, req.Options)
	opts.Logger = s.logger
	return g, opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := sink.RenderJSON(res, sink.WithJSONName(g.Name))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(headerCache, cacheStatus(hit))
	writeBytes(w, http.StatusOK, ContentType(pipeline.FormatJSON), data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	g, opts, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(headerCache, cacheStatus(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	writeBytes(w, http.StatusOK, ContentType(format), result.Artifacts[format])
}

// mergeOptions layers the set fields of req over base.
func mergeOptions(base, req pipeline.Options) pipeline.Options {
	out := base
	out.Formats = append([]string(nil), base.Formats...)
	if req.ScreenWidth != 0 || req.ScreenHeight != 0 {
		out.ScreenWidth, out.ScreenHeight = req.ScreenWidth, req.ScreenHeight
		out.FrameWidth, out.FrameHeight = 0, 0
	}
	if req.FrameWidth != 0 || req.FrameHeight != 0 {
		out.FrameWidth, out.FrameHeight = req.FrameWidth, req.FrameHeight
	}
	if req.LabelRadius != 0 {
		out.LabelRadius = req.LabelRadius
	}
	if req.DwellThreshold != 0 {
		out.DwellThreshold = req.DwellThreshold
	}
	if req.Style != "" {
		out.Style = req.Style
	}
	if req.Scale != 0 {
		out.Scale = req.Scale
	}
	if req.Title != "" {
		out.Title = req.Title
	}
	out.NoFrame = out.NoFrame || req.NoFrame
	out.Detailed = out.Detailed || req.Detailed
	out.Refresh = out.Refresh || req.Refresh
	return out
}

// ContentType returns the media type of an artifact format.
func ContentType(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatDiagram:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// requestID injects a unique X-Request-ID into every request context and
// response header. A client-supplied ID is reused.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID extracts the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// observe reports every request to the server hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := RequestID(ctx)
		hooks := observability.Server()
		req := observability.Request{ID: id, Method: r.Method, Path: r.URL.Path}
		hooks.OnRequest(ctx, req)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(ctx, req, status, dur)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", dur)
	})
}

// =============================================================================
// Responses
// =============================================================================

// problem is an RFC 7807 problem detail carrying the gazestep error code.
type problem struct {
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Code      string `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := gserrors.HTTPStatus(err)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	detail := gserrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("internal server error", "error", err, "request_id", RequestID(r.Context()))
		detail = "An unexpected error occurred. Please try again later."
	}
	writeProblem(w, r, status, string(gserrors.GetCode(err)), detail)
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	p := problem{
		Title:     http.StatusText(status),
		Status:    status,
		Code:      code,
		Detail:    detail,
		Instance:  r.URL.Path,
		RequestID: w.Header().Get(headerRequestID),
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
