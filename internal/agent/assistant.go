package agent

import (
	"context"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

// RequestProcessor runs the full classify-execute-aggregate pipeline
// for a user request. The orchestrator service satisfies it.
type RequestProcessor interface {
	Process(ctx context.Context, input string) (*capability.Result, error)
}

// AssistantBackend exposes the orchestrator as a capability so the
// assistant agent speaks the same task protocol as its peers.
type AssistantBackend struct {
	proc RequestProcessor
}

// NewAssistantBackend creates the assistant capability.
func NewAssistantBackend(proc RequestProcessor) *AssistantBackend {
	return &AssistantBackend{proc: proc}
}

// Kind implements agentbackend.Backend.
func (b *AssistantBackend) Kind() capability.Kind { return capability.KindAssistant }

// Invoke delegates to the orchestrator pipeline.
func (b *AssistantBackend) Invoke(ctx context.Context, input string) (*capability.Result, error) {
	return b.proc.Process(ctx, input)
}
