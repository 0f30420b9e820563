package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// SearchIndex provides lexical relevance scoring over chunk text.
// Backed by an in-memory BM25 scorer built once per corpus session.
type SearchIndex interface {
	// Build replaces the index state with one computed from the given
	// chunks. Build is the single-writer phase: it must complete before
	// any Search call is made.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Search scores the query against the built index and returns up to
	// limit hits, descending by score, ties broken by chunk ID.
	// An empty or unbuilt index returns no hits and no error.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// SearchHit represents a lexical search result.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the BM25 relevance score.
	Score float64
}
