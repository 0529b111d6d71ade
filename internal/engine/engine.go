// Package engine defines the contract with the external generation engine
// and the HTTP client for the inference runner that implements it.
package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"genserve/internal/core"
)

// ErrNotReady is returned when generation is attempted before the engine has
// been successfully initialized.
var ErrNotReady = errors.New("engine not initialized")

// Result is what a successful engine invocation produces.
type Result struct {
	Text       string
	TokenCount int
	Device     string
}

// Engine is the black-box generation collaborator. Generate must be invoked
// with the raw request parameters; normalization is a caching-only concern.
type Engine interface {
	Generate(ctx context.Context, prompt string, p core.Params) (*Result, error)
}

// Handle wraps an Engine with an explicit ready state and static metadata.
// It is the process-wide engine reference handed to the orchestrator at
// construction, replacing ambient nil checks scattered through request
// handling. Ready is flipped once initialization succeeds.
type Handle struct {
	engine Engine
	model  string

	ready  atomic.Bool
	device atomic.Value // string
}

// NewHandle wraps engine. The handle starts not ready.
func NewHandle(engine Engine, model string) *Handle {
	h := &Handle{engine: engine, model: model}
	h.device.Store("")
	return h
}

// Generate delegates to the wrapped engine. Callers that need the
// not-ready guard should check Ready first; the orchestrator does.
func (h *Handle) Generate(ctx context.Context, prompt string, p core.Params) (*Result, error) {
	if !h.Ready() {
		return nil, ErrNotReady
	}
	return h.engine.Generate(ctx, prompt, p)
}

// SetReady records whether the engine finished initialization.
func (h *Handle) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Ready reports whether the engine finished initialization.
func (h *Handle) Ready() bool {
	return h.ready.Load()
}

// Model returns the configured model name.
func (h *Handle) Model() string {
	return h.model
}

// SetDevice records the device the engine reports running on.
func (h *Handle) SetDevice(device string) {
	h.device.Store(device)
}

// Device returns the last known engine device, or "" if unknown.
func (h *Handle) Device() string {
	d, _ := h.device.Load().(string)
	return d
}
