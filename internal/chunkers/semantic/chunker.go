// Package semantic provides the embedding-similarity chunking policy.
//
// Sentence-like units are embedded one by one and greedily merged into a
// chunk while each next unit stays similar to the running centroid of
// the chunk built so far. The centroid variant (rather than comparing
// against the immediately preceding unit) keeps one outlier sentence
// from derailing an otherwise coherent chunk.
package semantic

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/veridoc-labs/veridoc-cli/internal/chunkers"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/tokenizer"
)

// DefaultSimilarityThreshold is the minimum centroid cosine similarity
// for a unit to join the current chunk.
const DefaultSimilarityThreshold = domain.DefaultSemanticSimilarityThreshold

// DefaultMaxTokens caps a merged chunk; larger groups get a window split.
const DefaultMaxTokens = domain.DefaultStructuralWindowTokens

// splitOverlapTokens is the overlap used when an oversized group is
// window-split.
const splitOverlapTokens = domain.DefaultStructuralOverlapTokens

// Chunker groups consecutive sentence units by embedding similarity.
// Chunking a page costs one embedding call per unit, separate from the
// later per-chunk embedding pass.
type Chunker struct {
	embedder  driven.EmbeddingService
	threshold float64
	maxTokens int
}

// Option configures the semantic chunker.
type Option func(*Chunker)

// WithThreshold sets the centroid similarity threshold.
func WithThreshold(t float64) Option {
	return func(c *Chunker) {
		c.threshold = t
	}
}

// WithMaxTokens sets the token cap per merged chunk.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// New creates a semantic chunker backed by the given embedding service.
func New(embedder driven.EmbeddingService, opts ...Option) *Chunker {
	c := &Chunker{
		embedder:  embedder,
		threshold: DefaultSimilarityThreshold,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the policy name.
func (c *Chunker) Name() string {
	return string(domain.PolicySemantic)
}

// Chunk splits the page into similarity-grouped chunks. The embedding
// collaborator failing surfaces as domain.ErrEmbeddingUnavailable; the
// caller decides whether to fall back to the structural policy.
func (c *Chunker) Chunk(ctx context.Context, page *domain.Page) ([]domain.Chunk, error) {
	if strings.TrimSpace(page.Text) == "" {
		return nil, nil
	}
	if c.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	units := sentenceSpans(page.Text)
	if len(units) == 0 {
		return nil, nil
	}

	var groups [][]tokenizer.Span
	if len(units) == 1 {
		groups = [][]tokenizer.Span{units}
	} else {
		texts := make([]string, len(units))
		for i, u := range units {
			texts[i] = page.Text[u.Start:u.End]
		}

		vectors, err := c.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding %d sentence units: %v",
				domain.ErrEmbeddingUnavailable, len(units), err)
		}
		if len(vectors) != len(units) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d units",
				domain.ErrEmbeddingUnavailable, len(vectors), len(units))
		}

		groups = c.group(units, vectors)
	}

	var chunks []domain.Chunk
	for _, group := range groups {
		start := group[0].Start
		end := group[len(group)-1].End
		text := page.Text[start:end]

		if tokenizer.CountTokens(text) <= c.maxTokens {
			chunks = append(chunks, c.emit(page, start, end))
			continue
		}
		for _, w := range chunkers.SlideWindows(text, start, c.maxTokens, splitOverlapTokens) {
			chunks = append(chunks, c.emit(page, w.Start, w.End))
		}
	}

	if err := chunkers.Verify(page, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// group merges consecutive units while the next unit's embedding stays
// at or above the threshold against the running centroid.
func (c *Chunker) group(units []tokenizer.Span, vectors [][]float32) [][]tokenizer.Span {
	groups := [][]tokenizer.Span{{units[0]}}
	centroid := newCentroid(vectors[0])

	for i := 1; i < len(units); i++ {
		if centroid.similarity(vectors[i]) >= c.threshold {
			groups[len(groups)-1] = append(groups[len(groups)-1], units[i])
			centroid.add(vectors[i])
		} else {
			groups = append(groups, []tokenizer.Span{units[i]})
			centroid = newCentroid(vectors[i])
		}
	}
	return groups
}

func (c *Chunker) emit(page *domain.Page, start, end int) domain.Chunk {
	text := page.Text[start:end]
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocID:      page.DocID,
		Page:       page.Number,
		CharStart:  start,
		CharEnd:    end,
		Text:       text,
		TokenCount: tokenizer.CountTokens(text),
		Policy:     domain.PolicySemantic,
	}
}

// centroid accumulates unit vectors for the current chunk.
type centroid struct {
	sum []float64
	n   int
}

func newCentroid(v []float32) *centroid {
	c := &centroid{sum: make([]float64, len(v)), n: 1}
	for i, x := range v {
		c.sum[i] = float64(x)
	}
	return c
}

func (c *centroid) add(v []float32) {
	for i, x := range v {
		if i < len(c.sum) {
			c.sum[i] += float64(x)
		}
	}
	c.n++
}

// similarity returns the cosine similarity between the centroid and v.
func (c *centroid) similarity(v []float32) float64 {
	var dot, normC, normV float64
	for i, x := range v {
		if i >= len(c.sum) {
			break
		}
		dot += c.sum[i] * float64(x)
		normC += c.sum[i] * c.sum[i]
		normV += float64(x) * float64(x)
	}
	denom := math.Sqrt(normC)*math.Sqrt(normV) + 1e-10
	return dot / denom
}

// sentenceSpans splits text into sentence-like units: a terminator
// followed by whitespace, or a blank line, ends a unit. Spans are
// trimmed so each one slices cleanly out of the page text.
func sentenceSpans(text string) []tokenizer.Span {
	var spans []tokenizer.Span
	start := 0

	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '.' || c == '!' || c == '?':
			if i+1 >= len(text) || isSpaceByte(text[i+1]) {
				spans = appendTrimmed(spans, text, start, i+1)
				start = i + 1
			}
		case c == '\n' && i+1 < len(text) && text[i+1] == '\n':
			spans = appendTrimmed(spans, text, start, i)
			for i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return appendTrimmed(spans, text, start, len(text))
}

func appendTrimmed(spans []tokenizer.Span, text string, start, end int) []tokenizer.Span {
	for start < end && isSpaceByte(text[start]) {
		start++
	}
	for end > start && isSpaceByte(text[end-1]) {
		end--
	}
	if start >= end {
		return spans
	}
	return append(spans, tokenizer.Span{Start: start, End: end})
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
