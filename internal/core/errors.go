package core

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of a request failure.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or out-of-range request (400).
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	// ErrorTypeBackendUnavailable indicates the engine was never successfully initialized (503).
	ErrorTypeBackendUnavailable ErrorType = "backend_unavailable"
	// ErrorTypeResourceExhausted indicates accelerator/memory exhaustion during generation (507).
	ErrorTypeResourceExhausted ErrorType = "resource_exhausted"
	// ErrorTypeGenerationFailed indicates any other engine failure (500).
	ErrorTypeGenerationFailed ErrorType = "generation_failed"
)

// ServiceError is the base error type for all caller-facing failures.
// Cache failures never become a ServiceError: the cache gateway absorbs them.
type ServiceError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *ServiceError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeBackendUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeResourceExhausted:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to the response body shape used by the API.
func (e *ServiceError) ToJSON() map[string]interface{} {
	return map[string]interface{}{"detail": e.Message}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewBackendUnavailableError creates a new backend unavailable error (503)
func NewBackendUnavailableError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeBackendUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// NewResourceExhaustedError creates a new resource exhausted error (507)
func NewResourceExhaustedError(message string, err error) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeResourceExhausted,
		Message:    message,
		StatusCode: http.StatusInsufficientStorage,
		Err:        err,
	}
}

// NewGenerationFailedError creates a new generation failed error (500)
func NewGenerationFailedError(message string, err error) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeGenerationFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
