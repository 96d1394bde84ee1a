package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rickgao/price-tracker/internal/metrics"
	"github.com/rickgao/price-tracker/internal/model"
	"github.com/rickgao/price-tracker/internal/poller"
)

// Queries answers asset lookups.
type Queries interface {
	Resolve(id string) (model.AssetSnapshot, error)
	Assets() []model.AssetConfig
}

// StatusSource reports the refresh scheduler's state.
type StatusSource interface {
	Status() poller.Status
}

// UpdateTimes reports when each asset was last written.
type UpdateTimes interface {
	UpdatedAt(id string) (time.Time, bool)
}

// CommandSurface is the WebSocket handler mounted on /ws.
type CommandSurface interface {
	http.Handler
	Shutdown(ctx context.Context) error
}

// Config configures the HTTP server.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string // "*" allows any origin
	MetricsEnabled bool
	MetricsPath    string
}

// Deps are the components the server reads from.
type Deps struct {
	Queries  Queries
	Status   StatusSource
	Updates  UpdateTimes
	Commands CommandSurface // Optional
}

// Server is the tracker's HTTP front end.
type Server struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
	http   *http.Server
}

// New creates a Server. Call ListenAndServe to start it.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}

	s.http = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.Handler(),
		ReadTimeout: cfg.ReadTimeout,
		// WriteTimeout does not apply to hijacked WebSocket connections.
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.AllowedOrigins))
	r.Use(metrics.InstrumentHandler)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/price", s.handlePrice)
		r.Get("/assets", s.handleAssets)
		r.Get("/assets/{id}", s.handleAsset)
	})

	if s.deps.Commands != nil {
		r.Get("/ws", s.deps.Commands.ServeHTTP)
	}

	if s.cfg.MetricsEnabled {
		r.Method(http.MethodGet, s.cfg.MetricsPath, metrics.Handler())
	}

	return r
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting http server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, closes WebSocket sessions and waits for
// in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if s.deps.Commands != nil {
		if err := s.deps.Commands.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown command surface: %w", err))
		}
	}
	return errors.Join(errs...)
}
