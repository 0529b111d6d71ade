// Package core provides the value types and error taxonomy shared across the service.
package core

import (
	"fmt"
	"unicode/utf8"
)

// Request bounds, matching the public API contract.
const (
	MaxPromptChars = 2000
	MinNewTokens   = 1
	MaxNewTokens   = 500
	MinTemperature = 0.1
	MaxTemperature = 2.0
	MinTopP        = 0.1
	MaxTopP        = 1.0
)

// Defaults applied to fields omitted from the request body.
const (
	DefaultMaxNewTokens = 100
	DefaultTemperature  = 0.7
	DefaultTopP         = 0.9
	DefaultDoSample     = true
)

// Params is the generation-parameter set handed to the engine. These are the
// raw request values; normalization for cache keying never touches them.
type Params struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

// GenerationRequest is the inbound request body. Optional fields are pointers
// so that an omitted field can be distinguished from an explicit zero before
// defaults are applied.
type GenerationRequest struct {
	Prompt       string   `json:"prompt"`
	MaxNewTokens *int     `json:"max_new_tokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	TopP         *float64 `json:"top_p,omitempty"`
	DoSample     *bool    `json:"do_sample,omitempty"`
	// Stream is accepted for API compatibility but not acted upon.
	Stream bool `json:"stream,omitempty"`
}

// Params resolves the request's parameter set, applying defaults for omitted
// fields.
func (r *GenerationRequest) Params() Params {
	p := Params{
		MaxNewTokens: DefaultMaxNewTokens,
		Temperature:  DefaultTemperature,
		TopP:         DefaultTopP,
		DoSample:     DefaultDoSample,
	}
	if r.MaxNewTokens != nil {
		p.MaxNewTokens = *r.MaxNewTokens
	}
	if r.Temperature != nil {
		p.Temperature = *r.Temperature
	}
	if r.TopP != nil {
		p.TopP = *r.TopP
	}
	if r.DoSample != nil {
		p.DoSample = *r.DoSample
	}
	return p
}

// Validate checks the request against the API bounds. It returns a
// *ServiceError of type invalid_request describing the first violation found,
// or nil. Requests that fail validation never reach the orchestrator.
func (r *GenerationRequest) Validate() error {
	if r.Prompt == "" {
		return NewInvalidRequestError("prompt must not be empty", nil)
	}
	if n := utf8.RuneCountInString(r.Prompt); n > MaxPromptChars {
		return NewInvalidRequestError(
			fmt.Sprintf("prompt exceeds %d characters (got %d)", MaxPromptChars, n), nil)
	}
	p := r.Params()
	if p.MaxNewTokens < MinNewTokens || p.MaxNewTokens > MaxNewTokens {
		return NewInvalidRequestError(
			fmt.Sprintf("max_new_tokens must be between %d and %d", MinNewTokens, MaxNewTokens), nil)
	}
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		return NewInvalidRequestError(
			fmt.Sprintf("temperature must be between %g and %g", MinTemperature, MaxTemperature), nil)
	}
	if p.TopP < MinTopP || p.TopP > MaxTopP {
		return NewInvalidRequestError(
			fmt.Sprintf("top_p must be between %g and %g", MinTopP, MaxTopP), nil)
	}
	return nil
}

// CachedResult is the value persisted in the cache store. The Cached flag is
// stored as written but never trusted at serve time: the orchestrator
// recomputes it for every response.
type CachedResult struct {
	Prompt          string `json:"prompt"`
	GeneratedText   string `json:"generated_text"`
	TokensGenerated int    `json:"tokens_generated"`
	DeviceUsed      string `json:"device_used"`
	Cached          bool   `json:"cached"`
}

// GenerationOutcome is the response returned to the caller. ProcessingTime and
// Cached are request-local: they are measured/decided per request, even when
// the remaining fields were served from the store.
type GenerationOutcome struct {
	Prompt          string  `json:"prompt"`
	GeneratedText   string  `json:"generated_text"`
	ProcessingTime  float64 `json:"processing_time"`
	DeviceUsed      string  `json:"device_used"`
	Cached          bool    `json:"cached"`
	TokensGenerated int     `json:"tokens_generated"`
}
