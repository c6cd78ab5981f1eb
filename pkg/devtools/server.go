package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	rerrors "github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/snapshot"
)

// Config configures the devtools server.
type Config struct {
	// Addr is the listen address (default: "127.0.0.1:7070").
	Addr string

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Sink receives snapshots posted to /api/snapshot. When nil the route
	// answers 503.
	Sink snapshot.Sink

	// Logger receives request and lifecycle logs.
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown (default: 5s).
	ShutdownTimeout time.Duration
}

// DefaultAddr is the default listen address.
const DefaultAddr = "127.0.0.1:7070"

// Server is the devtools HTTP server.
type Server struct {
	config     Config
	router     chi.Router
	hub        *Hub
	logger     *slog.Logger
	httpServer *http.Server
}

// New builds the server and its routes. The hub is not bridged to the
// runtime signals; call Bridge(s.Hub()) for that.
func New(config Config) *Server {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		config: config,
		hub:    NewHub(config.Logger),
		logger: config.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/targets", s.handleTargets)
		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/snapshot", s.handleExport)
		r.Handle("/events", s.hub)
	})

	s.router = r
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the event stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return rerrors.New("E142").Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devtools server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return rerrors.New("E142").Wrap(err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes stream clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("devtools server shutdown complete")
	return nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, reactivity.ReadStats())
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, reactivity.Inspect())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := snapshot.Take().Encode(w); err != nil {
		s.logger.Warn("encode snapshot", "error", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.config.Sink == nil {
		writeError(w, http.StatusServiceUnavailable, rerrors.New("E141"))
		return
	}
	loc, err := snapshot.Export(r.Context(), s.config.Sink, snapshot.Take())
	if err != nil {
		s.logger.Error("snapshot export failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	s.logger.Info("snapshot exported", "location", loc)
	writeJSON(w, http.StatusCreated, map[string]string{"location": loc})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err as a structured error body. Uncoded errors are
// reported as their message alone.
func writeError(w http.ResponseWriter, status int, err error) {
	var coded *rerrors.Error
	if !rerrors.As(err, &coded) {
		coded = rerrors.Newf(rerrors.CategoryRuntime, "%s", err.Error())
	}
	writeJSON(w, status, coded)
}
