package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// Chunker segments one page's text into chunks under a single policy.
// Each call is a fresh deterministic pass; chunkers hold no per-page state.
type Chunker interface {
	// Name returns the policy name ("structural" or "semantic").
	Name() string

	// Chunk splits the page into chunks with exact offsets. An empty
	// page yields an empty slice, not an error. Emitted chunks satisfy
	// page.Text[c.CharStart:c.CharEnd] == c.Text with start offsets
	// monotonically non-decreasing.
	Chunk(ctx context.Context, page *domain.Page) ([]domain.Chunk, error)
}
