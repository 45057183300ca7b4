package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"recipebook/internal/handlers"
	applog "recipebook/internal/log"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
	defaultRateLimit         = 100
	defaultRateLimitBurst    = 200
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	RateLimit         float64
	RateLimitBurst    int
	Database          *gorm.DB
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config      Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"rateLimit", cfg.RateLimit,
		"rateLimitBurst", cfg.RateLimitBurst,
	)

	if strings.TrimSpace(cfg.Addr) == "" {
		applog.Debug(context.Background(), "server address not provided, using default")
		cfg.Addr = ":8080"
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.RateLimit <= 0 {
		applog.Debug(context.Background(), "rate limit not provided, using default")
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	handlers.Configure(cfg.Database)

	applog.Debug(context.Background(), "handler dependencies configured")

	s := &Server{
		config:      cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.newRouter(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	applog.Debug(context.Background(), "http handler chain prepared")

	return s, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Debug(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
