package engine

import (
	"errors"
	"strings"

	"genserve/internal/core"
)

// Classifier maps an engine failure to a caller-facing ServiceError. The
// rule is pluggable so the matching vocabulary can evolve without touching
// the orchestrator.
type Classifier func(err error) *core.ServiceError

// exhaustionPhrases is the known accelerator/memory exhaustion vocabulary,
// matched case-insensitively against the failure text. Best-effort: backends
// phrase exhaustion differently and this list tracks the ones seen so far.
var exhaustionPhrases = []string{
	"out of memory",
	"oom",
	"insufficient memory",
	"memory exhausted",
}

// ClassifyFailure is the default Classifier:
//   - ErrNotReady -> backend_unavailable
//   - failure text matching an exhaustion phrase -> resource_exhausted
//   - anything else -> generation_failed, carrying the original message
func ClassifyFailure(err error) *core.ServiceError {
	if errors.Is(err, ErrNotReady) {
		return core.NewBackendUnavailableError("model not loaded")
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range exhaustionPhrases {
		if strings.Contains(msg, phrase) {
			return core.NewResourceExhaustedError("accelerator memory insufficient", err)
		}
	}

	return core.NewGenerationFailedError("generation failed: "+err.Error(), err)
}
