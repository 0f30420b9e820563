package chunkers

import (
	"fmt"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// BuilderFunc creates a Chunker from the application settings.
type BuilderFunc func(settings domain.Settings) (driven.Chunker, error)

// Registry maps policy names to their builders.
// It allows dynamic construction of chunkers from configuration.
type Registry struct {
	builders map[domain.ChunkPolicy]BuilderFunc
}

// NewRegistry creates a new chunker registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[domain.ChunkPolicy]BuilderFunc),
	}
}

// Register adds a chunker builder to the registry.
// Policy should match the chunker's Name() return value.
func (r *Registry) Register(policy domain.ChunkPolicy, builder BuilderFunc) {
	r.builders[policy] = builder
}

// Build creates a chunker for the given policy.
// Returns domain.ErrUnknownPolicy if the policy is not registered.
func (r *Registry) Build(policy domain.ChunkPolicy, settings domain.Settings) (driven.Chunker, error) {
	builder, ok := r.builders[policy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, policy)
	}
	return builder(settings)
}

// Has returns true if a chunker for the given policy is registered.
func (r *Registry) Has(policy domain.ChunkPolicy) bool {
	_, ok := r.builders[policy]
	return ok
}
