// Package agentbackend defines the port for capability implementations
// hosted behind the task protocol.
package agentbackend

import (
	"context"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

// Backend is the contract every capability implementation satisfies.
// Invoke runs synchronously; the protocol server blocks the request
// context on it and maps any error into a failed task, never an RPC fault.
type Backend interface {
	// Kind returns the capability this backend provides.
	Kind() capability.Kind

	// Invoke performs the capability on the given text input.
	Invoke(ctx context.Context, input string) (*capability.Result, error)
}
