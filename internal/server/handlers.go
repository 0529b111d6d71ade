// Package server provides HTTP handlers and server setup for the generation
// service.
package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"genserve/internal/core"
	"genserve/internal/engine"
	"genserve/internal/version"
)

// Handler holds the HTTP handlers.
type Handler struct {
	gen            core.Generator
	engine         *engine.Handle
	cacheAvailable bool
}

// NewHandler creates a handler serving requests through gen, reporting
// status from the engine handle.
func NewHandler(gen core.Generator, eng *engine.Handle, cacheAvailable bool) *Handler {
	return &Handler{
		gen:            gen,
		engine:         eng,
		cacheAvailable: cacheAvailable,
	}
}

// GenerateText handles POST /generate.
func (h *Handler) GenerateText(c echo.Context) error {
	var req core.GenerationRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	if err := req.Validate(); err != nil {
		return handleError(c, err)
	}

	outcome, err := h.gen.Generate(c.Request().Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, outcome)
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	status := "healthy"
	if !h.engine.Ready() {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":          status,
		"model":           h.engine.Model(),
		"device":          h.engine.Device(),
		"model_loaded":    h.engine.Ready(),
		"cache_available": h.cacheAvailable,
	})
}

// Root handles GET /.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "genserve",
		"version": version.Version,
		"model":   h.engine.Model(),
		"device":  h.engine.Device(),
		"endpoints": map[string]string{
			"generate": "/generate",
			"health":   "/health",
			"metrics":  "/metrics",
		},
	})
}

// handleError converts service errors to HTTP responses.
func handleError(c echo.Context, err error) error {
	var svcErr *core.ServiceError
	if errors.As(err, &svcErr) {
		return c.JSON(svcErr.HTTPStatusCode(), svcErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"detail": "an unexpected error occurred",
	})
}
