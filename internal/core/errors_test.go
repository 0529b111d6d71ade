package core

import (
	"errors"
	"net/http"
	"testing"
)

func TestServiceErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *ServiceError
		want int
	}{
		{"InvalidRequest", NewInvalidRequestError("bad", nil), http.StatusBadRequest},
		{"BackendUnavailable", NewBackendUnavailableError("not loaded"), http.StatusServiceUnavailable},
		{"ResourceExhausted", NewResourceExhaustedError("oom", nil), http.StatusInsufficientStorage},
		{"GenerationFailed", NewGenerationFailedError("boom", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatusCode(); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServiceErrorDefaultStatusByType(t *testing.T) {
	e := &ServiceError{Type: ErrorTypeResourceExhausted, Message: "oom"}
	if got := e.HTTPStatusCode(); got != http.StatusInsufficientStorage {
		t.Fatalf("got %d, want %d", got, http.StatusInsufficientStorage)
	}
}

func TestServiceErrorToJSON(t *testing.T) {
	e := NewBackendUnavailableError("model not loaded")
	body := e.ToJSON()
	if body["detail"] != "model not loaded" {
		t.Fatalf("got %v, want detail field", body)
	}
	if _, leaked := body["status_code"]; leaked {
		t.Fatal("internal fields must not leak into the body")
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("cuda error")
	e := NewGenerationFailedError("generation failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
}
