// Package server serves the admin console shell over HTTP.
//
// Page requests are resolved against the route table: redirect routes answer
// with a 302 to the target's href, component routes render inside the HTML
// shell and unmatched paths render the shell with a 404. The JSON API and
// the live navigation socket expose the same router to scripts and clients.
package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/pkg/router"
)

// Server is the console's HTTP server.
type Server struct {
	cfg    *config.Config
	router *router.Router
	logger *slog.Logger

	tracer   trace.Tracer
	metrics  *metrics
	gatherer prometheus.Gatherer

	upgrader websocket.Upgrader
	handler  http.Handler

	// mu guards conns
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry *prometheus.Registry
	tracerTP trace.TracerProvider
}

// WithLogger sets the server logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry registers metrics on reg and serves it at the metrics path.
// Defaults to a new registry with the Go and process collectors.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerTP = tp }
}

// New creates a server for r configured by cfg.
func New(cfg *config.Config, r *router.Router, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	var tracer trace.Tracer
	switch {
	case !cfg.Tracing.Enabled:
		tracer = noop.NewTracerProvider().Tracer(cfg.Tracing.TracerName)
	case o.tracerTP != nil:
		tracer = o.tracerTP.Tracer(cfg.Tracing.TracerName)
	default:
		tracer = otel.Tracer(cfg.Tracing.TracerName)
	}

	s := &Server{
		cfg:      cfg,
		router:   r,
		logger:   o.logger.With("component", "server"),
		tracer:   tracer,
		metrics:  newMetrics(o.registry),
		gatherer: o.registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(requestLogger(s.logger))
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	mux.Route("/api", func(api chi.Router) {
		api.Get("/routes", s.handleRoutes)
		api.Get("/resolve", s.handleResolve)
	})

	mux.Get("/ws/navigate", s.handleNavigate)

	if s.cfg.Metrics.Enabled {
		mux.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	mux.Get("/*", s.handlePage)
	mux.Head("/*", s.handlePage)
	return mux
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return errors.New("E140").WithDetail("listen on " + s.cfg.Address()).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E140").Wrap(err)

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
		defer cancel()

		// Hijacked connections are not tracked by http.Server.
		s.closeSessions()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return errors.New("E141").Wrap(err)
		}
		s.logger.Info("server shutdown complete")
		return nil
	}
}

// requestLogger logs one record per request through logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
