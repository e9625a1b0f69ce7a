// Package server exposes the netweave pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness and build information
//	GET  /v1/kinds           supported networks, layouts and formats
//	POST /v1/scenes          run the pipeline for a JSON body of pipeline.Options
//	POST /v1/scenes/sample   sample a scene from a parameter schema, then run it
//	GET  /metrics            Prometheus metrics (when a gatherer is configured)
//
// Scene endpoints answer with the JSON layout document by default;
// ?format=dot or ?format=svg returns that artifact instead. Errors are JSON
// objects carrying the error code, mapped onto HTTP status codes.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/netweave/pkg/buildinfo"
	"github.com/matzehuels/netweave/pkg/config"
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/observability"
	"github.com/matzehuels/netweave/pkg/params"
	"github.com/matzehuels/netweave/pkg/pipeline"
	"github.com/matzehuels/netweave/pkg/rng"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Runner executes pipeline runs. Required.
	Runner *pipeline.Runner

	// Defaults fill request fields left unset.
	Defaults config.PipelineConfig

	// Logger receives request logs. Defaults to log.Default().
	Logger *log.Logger

	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration

	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// MaxNodes and MaxIterations reject scenes above these sizes. Zero
	// leaves only the pipeline limits.
	MaxNodes      int
	MaxIterations int
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner        *pipeline.Runner
	defaults      config.PipelineConfig
	logger        *log.Logger
	router        chi.Router
	maxNodes      int
	maxIterations int
}

// New builds a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:        opts.Runner,
		defaults:      opts.Defaults,
		logger:        logger,
		maxNodes:      opts.MaxNodes,
		maxIterations: opts.MaxIterations,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/scenes", s.handleScene)
		r.Post("/scenes/sample", s.handleSample)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Middleware
// =============================================================================

// instrument reports every request to the HTTP hooks, labelled with the
// matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type kindsResponse struct {
	Networks []generate.Kind `json:"networks"`
	Layouts  []layout.Kind   `json:"layouts"`
	Formats  []string        `json:"formats"`
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, kindsResponse{
		Networks: generate.Kinds(),
		Layouts:  layout.Kinds(),
		Formats:  []string{pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG},
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(body) > 0 {
		if err := decodeOptions(body, &opts); err != nil {
			writeError(w, err)
			return
		}
	}
	s.run(w, r, opts)
}

// handleSample draws a scene from the YAML schema in the body (the built-in
// schema when the body is empty) using ?seed=, then runs it.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	schema := params.Default()
	if len(body) > 0 {
		if schema, err = params.Parse(body); err != nil {
			writeError(w, err)
			return
		}
	}

	seed := pipeline.DefaultSeed
	if v := r.URL.Query().Get("seed"); v != "" {
		if seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			writeError(w, errors.InvalidParameter("seed=%q is not an unsigned integer", v))
			return
		}
	}

	scene, err := schema.Sample(rng.New(seed))
	if err != nil {
		writeError(w, err)
		return
	}
	s.run(w, r, scene.Options())
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	s.defaults.Apply(&opts)
	if err := s.checkLimits(opts); err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Cache-Graph", hitOrMiss(result.CacheInfo.GraphHit))
	w.Header().Set("X-Cache-Layout", hitOrMiss(result.CacheInfo.LayoutHit))
	if result.Degenerate {
		w.Header().Set("X-Degenerate-Layout", "true")
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// checkLimits applies the server caps to a scene after the configured
// defaults are applied.
func (s *Server) checkLimits(opts pipeline.Options) error {
	if s.maxNodes > 0 && opts.Nodes > s.maxNodes {
		return errors.InvalidParameter("nodes=%d exceeds the server maximum of %d", opts.Nodes, s.maxNodes)
	}
	if s.maxIterations > 0 && opts.Iterations > s.maxIterations {
		return errors.InvalidParameter("iterations=%d exceeds the server maximum of %d", opts.Iterations, s.maxIterations)
	}
	return nil
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Helpers
// =============================================================================

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

// decodeOptions parses a request body. Kind selectors that are present must
// be well-formed; absent ones take the defaults later.
func decodeOptions(body []byte, opts *pipeline.Options) error {
	if err := json.Unmarshal(body, opts); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if opts.Network != "" {
		if err := errors.ValidateKindName("network", opts.Network); err != nil {
			return err
		}
	}
	if opts.Layout != "" {
		if err := errors.ValidateKindName("layout", opts.Layout); err != nil {
			return err
		}
	}
	return nil
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidParameter, errors.ErrCodeUnsupportedKind,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeDegenerateLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(body.Error.Code), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
