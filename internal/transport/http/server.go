package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"surveycli/internal/config"
)

// RouterOptions selects what the status router serves
type RouterOptions struct {
	Version string
	// Metrics serves /metrics when non-nil
	Metrics http.Handler
	// RateLimit caps requests per second; zero uses the default
	RateLimit float64
	Burst     int
}

// NewRouter builds the status router
func NewRouter(runs RunSource, opts RouterOptions, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = config.DefaultStatusRateLimit
	}
	if opts.Burst <= 0 {
		opts.Burst = config.DefaultStatusBurst
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(StructuredLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(NewRateLimiter(opts.RateLimit, opts.Burst, logger).Handler)

	r.Get(config.HealthEndpoint, NewHealthHandler(opts.Version).HealthCheck)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, config.MetricsEndpoint, opts.Metrics)
	}
	runsHandler := NewRunsHandler(runs, logger)
	r.Get(config.LatestRunEndpoint, runsHandler.GetLatest)
	r.Get(config.LatestRunEndpoint+"/datasets/{dataset}", runsHandler.GetLatestDataset)
	return r
}

// Server serves the status router in the background of a run
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates a server listening on addr
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With(slog.String("component", "status_server")),
	}
}

// Start binds the listener and serves until Shutdown. The bound address
// is returned so ":0" can be used.
func (s *Server) Start(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return "", err
	}
	addr := ln.Addr().String()
	s.logger.InfoContext(ctx, "status server listening", slog.String("addr", addr))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server stopped", slog.String("error", err.Error()))
		}
	}()
	return addr, nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
