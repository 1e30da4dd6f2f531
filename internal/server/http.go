package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatrelay/internal/core"
	"chatrelay/internal/observability"
)

// DefaultBodySizeLimit caps inbound request bodies. Chat payloads are small;
// anything near this limit is abuse, not conversation.
const DefaultBodySizeLimit = "1M"

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options
type Config struct {
	Model          string                 // Upstream model identifier attached to every payload
	MetricsEnabled bool                   // Whether to expose the Prometheus metrics endpoint
	Metrics        *observability.Metrics // Collectors; nil disables recording
	BodySizeLimit  string                 // Max request body size (default: 1M)
}

// New creates a new HTTP server
func New(completer core.Completer, creds core.CredentialSource, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if cfg == nil {
		cfg = &Config{}
	}

	handler := NewHandler(completer, creds, cfg.Model, cfg.Metrics)

	// Global middleware stack (order matters)
	e.Use(middleware.Recover())
	e.Use(RequestIDMiddleware())

	bodySizeLimit := cfg.BodySizeLimit
	if bodySizeLimit == "" {
		bodySizeLimit = DefaultBodySizeLimit
	}
	e.Use(middleware.BodyLimit(bodySizeLimit))

	// Public routes
	e.GET("/health", handler.Health)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// The chat route matches every method; the handler answers non-POST with
	// a 405 envelope itself.
	e.Any("/api/chat", handler.Chat)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements the http.Handler interface, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
