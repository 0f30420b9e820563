package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// GenerationService synthesises an answer from a question and its
// retrieved context. This is an optional service - when nil, the ask
// command is disabled while retrieval and validation keep working.
//
// The returned text is expected to carry citation tags in the
// [doc_id | page | start:end] grammar; the citation validator checks
// them afterwards, the generator is never trusted.
type GenerationService interface {
	// Answer generates an answer to the question using only the given
	// context chunks, citing sources inline.
	Answer(ctx context.Context, question string, contextChunks []domain.RetrievedChunk) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
