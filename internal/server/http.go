package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultBodyLimit caps request bodies; generation requests are small JSON
// documents.
const DefaultBodyLimit = "64K"

// Config holds server configuration options.
type Config struct {
	MetricsEnabled bool   // whether to expose the Prometheus metrics endpoint
	BodyLimit      string // max request body size (default: 64K)
	Logger         *slog.Logger
}

// Server wraps the Echo server.
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// New creates the HTTP server and wires routes and middleware.
func New(handler *Handler, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := slog.Default()
	if cfg != nil && cfg.Logger != nil {
		logger = cfg.Logger
	}

	bodyLimit := DefaultBodyLimit
	if cfg != nil && cfg.BodyLimit != "" {
		bodyLimit = cfg.BodyLimit
	}

	// Global middleware stack (order matters)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.POST("/generate", handler.GenerateText)
	if cfg != nil && cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, allowing Server to be used with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
