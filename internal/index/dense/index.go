// Package dense provides exact nearest-neighbour search over chunk
// embeddings.
//
// Vectors are L2-normalised at insertion so cosine similarity reduces
// to an inner product. Search is a brute-force scan: corpora in scope
// are small and evaluation numbers must be reproducible, so exactness
// wins over an approximate structure.
package dense

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact inner-product index over chunk embeddings.
type Index struct {
	mu      sync.RWMutex
	dim     int
	ids     []string
	vectors [][]float32
}

// New creates an empty dense index.
func New() *Index {
	return &Index{}
}

// Build replaces the index state with the embeddings of the given
// chunks. Chunks without an embedding are skipped; vectors that
// disagree on dimensionality fail the build with
// domain.ErrDimensionMismatch.
func (idx *Index) Build(_ context.Context, chunks []domain.Chunk) error {
	dim := 0
	ids := make([]string, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))

	skipped := 0
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			skipped++
			continue
		}
		if dim == 0 {
			dim = len(c.Embedding)
		} else if len(c.Embedding) != dim {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, c.ID, len(c.Embedding), dim)
		}
		ids = append(ids, c.ID)
		vectors = append(vectors, normalize(c.Embedding))
	}
	if skipped > 0 {
		logger.Warn("Dense index: skipped %d chunks without embeddings", skipped)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dim = dim
	idx.ids = ids
	idx.vectors = vectors
	return nil
}

// Search finds the k most similar chunks to the query vector,
// descending by cosine similarity, ties broken by chunk ID ascending.
// An empty index returns no hits and no error.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.ids) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dim)
	}

	q := normalize(query)
	hits := make([]driven.VectorHit, len(idx.ids))
	for i, v := range idx.vectors {
		hits[i] = driven.VectorHit{ChunkID: idx.ids[i], Similarity: dot(q, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Size returns the number of indexed vectors.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
