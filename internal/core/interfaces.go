package core

import "context"

// Generator produces a GenerationOutcome for a validated request.
// The orchestrator is the production implementation; handlers depend on this
// interface so tests can substitute their own.
type Generator interface {
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationOutcome, error)
}
