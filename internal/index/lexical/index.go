// Package lexical provides an in-memory BM25 scorer over chunk text.
//
// The index keeps per-chunk term frequencies rather than an inverted
// index: corpora in scope are small, and a flat scan keeps scoring
// exact and trivially reproducible. Tokenisation goes through the
// shared tokenizer package at build time and query time alike; the two
// must match or the scores are meaningless.
package lexical

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/tokenizer"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// Default BM25 parameters.
const (
	DefaultK1 = domain.DefaultBM25K1
	DefaultB  = domain.DefaultBM25B
)

// entry is the indexed form of one chunk.
type entry struct {
	chunkID string
	tf      map[string]int
	length  int
}

// Index is a BM25 scorer built once per corpus session. Build is the
// single-writer phase; Search only reads, so concurrent searches need
// no coordination beyond the build/read fence.
type Index struct {
	k1 float64
	b  float64

	mu      sync.RWMutex
	entries []entry
	df      map[string]int
	avgdl   float64
}

// Option configures the index.
type Option func(*Index)

// WithK1 sets the term-frequency saturation parameter.
func WithK1(k1 float64) Option {
	return func(idx *Index) {
		if k1 >= 0 {
			idx.k1 = k1
		}
	}
}

// WithB sets the length-normalisation parameter.
func WithB(b float64) Option {
	return func(idx *Index) {
		if b >= 0 && b <= 1 {
			idx.b = b
		}
	}
}

// New creates an empty BM25 index.
func New(opts ...Option) *Index {
	idx := &Index{
		k1: DefaultK1,
		b:  DefaultB,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build replaces the index state with one computed from the chunks.
func (idx *Index) Build(_ context.Context, chunks []domain.Chunk) error {
	entries := make([]entry, 0, len(chunks))
	df := make(map[string]int)
	totalLen := 0

	for _, c := range chunks {
		tokens := tokenizer.Tokenize(c.Text)
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for t := range tf {
			df[t]++
		}
		totalLen += len(tokens)
		entries = append(entries, entry{chunkID: c.ID, tf: tf, length: len(tokens)})
	}

	avgdl := 0.0
	if len(entries) > 0 {
		avgdl = float64(totalLen) / float64(len(entries))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = entries
	idx.df = df
	idx.avgdl = avgdl
	return nil
}

// Search scores the query against every indexed chunk and returns up to
// limit hits, descending by score, ties broken by chunk ID ascending.
// An empty index, or a query with no scoring terms, returns no hits.
func (idx *Index) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	terms := tokenizer.Tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return nil, nil
	}

	n := float64(len(idx.entries))
	hits := make([]driven.SearchHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		score := 0.0
		for _, t := range terms {
			tf := float64(e.tf[t])
			if tf == 0 {
				continue
			}
			nt := float64(idx.df[t])
			idf := math.Log((n-nt+0.5)/(nt+0.5) + 1)
			norm := 1 - idx.b + idx.b*float64(e.length)/idx.avgdl
			score += idf * tf * (idx.k1 + 1) / (tf + idx.k1*norm)
		}
		if score > 0 {
			hits = append(hits, driven.SearchHit{ChunkID: e.chunkID, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
