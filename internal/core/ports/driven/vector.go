package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// VectorIndex provides semantic similarity search over chunk embeddings.
// Backed by exact (brute-force) inner-product search: corpora in scope
// are small and evaluation numbers must be reproducible, so exactness
// wins over sub-linear lookup.
type VectorIndex interface {
	// Build replaces the index state with the embeddings of the given
	// chunks. Vectors are L2-normalised at insertion so cosine
	// similarity reduces to inner product. Chunks without an embedding
	// are skipped. Returns domain.ErrDimensionMismatch when stored
	// vectors disagree on size.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Search finds the k most similar chunks to the query vector,
	// descending by cosine similarity, ties broken by chunk ID.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
