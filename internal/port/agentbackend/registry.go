package agentbackend

import (
	"slices"
	"sync"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

// Registry is the capability-to-handler lookup table. The protocol
// server resolves the backend for its bound capability here instead of
// switching on an agent type string.
type Registry struct {
	mu       sync.RWMutex
	backends map[capability.Kind]Backend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[capability.Kind]Backend)}
}

// Register adds a backend for its declared kind. Registering the same
// kind twice replaces the earlier backend.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Kind()] = b
}

// Lookup returns the backend for the given kind.
func (r *Registry) Lookup(kind capability.Kind) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[kind]
	return b, ok
}

// Kinds lists the registered capability kinds in sorted order, so
// repeated descriptor fetches advertise a byte-stable skill list.
func (r *Registry) Kinds() []capability.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]capability.Kind, 0, len(r.backends))
	for k := range r.backends {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
