package engine

import (
	"errors"
	"fmt"
	"testing"

	"genserve/internal/core"
)

func TestClassifyFailure(t *testing.T) {
	t.Run("ExhaustionPhrasesAnyCasing", func(t *testing.T) {
		messages := []string{
			"CUDA out of memory. Tried to allocate 2.00 GiB",
			"Out Of Memory",
			"OUT OF MEMORY",
			"worker killed: OOM",
			"insufficient memory on device 0",
			"memory exhausted during forward pass",
		}
		for _, msg := range messages {
			svcErr := ClassifyFailure(errors.New(msg))
			if svcErr.Type != core.ErrorTypeResourceExhausted {
				t.Errorf("%q classified as %s, want %s", msg, svcErr.Type, core.ErrorTypeResourceExhausted)
			}
		}
	})

	t.Run("NotReady", func(t *testing.T) {
		svcErr := ClassifyFailure(ErrNotReady)
		if svcErr.Type != core.ErrorTypeBackendUnavailable {
			t.Fatalf("got %s, want %s", svcErr.Type, core.ErrorTypeBackendUnavailable)
		}
	})

	t.Run("WrappedNotReady", func(t *testing.T) {
		svcErr := ClassifyFailure(fmt.Errorf("engine request failed: %w", ErrNotReady))
		if svcErr.Type != core.ErrorTypeBackendUnavailable {
			t.Fatalf("got %s, want %s", svcErr.Type, core.ErrorTypeBackendUnavailable)
		}
	})

	t.Run("GenericFailureCarriesMessage", func(t *testing.T) {
		cause := errors.New("tensor shape mismatch")
		svcErr := ClassifyFailure(cause)
		if svcErr.Type != core.ErrorTypeGenerationFailed {
			t.Fatalf("got %s, want %s", svcErr.Type, core.ErrorTypeGenerationFailed)
		}
		if !errors.Is(svcErr, cause) {
			t.Fatal("original error lost")
		}
		if svcErr.Message == "" {
			t.Fatal("diagnostics message missing")
		}
	})
}
