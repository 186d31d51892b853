// package server contains the router, middleware & handlers for the local movie JSON API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/session"
	"github.com/desertthunder/mvx/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request ids, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators of the HTTP surface.
type Deps struct {
	Service services.MovieService
	Session *session.Session
	Logger  *log.Logger
	Metrics *Metrics // Optional, a fresh registry is created when nil
}

// NewHandler assembles the router: per-route request id, recovery, logging and
// metrics, wrapped in rate limiting and CORS for the whole surface.
func NewHandler(cfg shared.ServerConfig, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger), Instrument(metrics), Recover())

	NewAPIHandler(deps.Service, deps.Session, logger).Register(router)
	router.Handler(NewHealthHandler(deps.Service))
	router.Handle(http.MethodGet, "/metrics", metrics.Handler())

	return CORS(cfg.AllowedOrigins)(RateLimit(cfg.RateLimitPerMinute)(router))
}

// Server runs the HTTP surface until its context ends.
type Server struct {
	srv    *http.Server
	logger *log.Logger
}

// New creates a Server listening on addr.
func New(addr string, handler http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens and serves until ctx is cancelled, then shuts down gracefully.
//
// ready, when non-nil, receives the bound address once the listener is open.
func (s *Server) Run(ctx context.Context, ready chan<- string) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	addr := ln.Addr().String()
	s.logger.Info("server listening", "addr", addr)
	if ready != nil {
		ready <- addr
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("server shutting down")
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
