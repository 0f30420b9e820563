package services

import (
	"context"
	"errors"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// mockEmbedder returns canned vectors keyed by exact text. Unknown
// texts get the fallback vector so tests control similarity fully.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	dims     int
	err      error
	calls    int
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func newMockEmbedder(dims int) *mockEmbedder {
	fallback := make([]float32, dims)
	fallback[0] = 1
	return &mockEmbedder{
		vectors:  make(map[string][]float32),
		fallback: fallback,
		dims:     dims,
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = m.fallback
		}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return m.dims }
func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockGenerator returns a fixed answer and records what it was asked.
type mockGenerator struct {
	answer   string
	err      error
	question string
	context  []domain.RetrievedChunk
	calls    int
}

var _ driven.GenerationService = (*mockGenerator)(nil)

func (m *mockGenerator) Answer(_ context.Context, question string, contextChunks []domain.RetrievedChunk) (string, error) {
	m.calls++
	m.question = question
	m.context = contextChunks
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockGenerator) ModelName() string          { return "mock-llm" }
func (m *mockGenerator) Ping(context.Context) error { return nil }
func (m *mockGenerator) Close() error               { return nil }

// mockExtractor serves a canned document and pages for any path.
type mockExtractor struct {
	doc   domain.Document
	pages []domain.Page
	err   error
}

var _ driven.PageExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) Extract(_ context.Context, _ string) (*domain.Document, []domain.Page, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	doc := m.doc
	pages := make([]domain.Page, len(m.pages))
	copy(pages, m.pages)
	return &doc, pages, nil
}

// failingSearchIndex errors on every search.
type failingSearchIndex struct{}

var _ driven.SearchIndex = (*failingSearchIndex)(nil)

func (failingSearchIndex) Build(context.Context, []domain.Chunk) error {
	return nil
}

func (failingSearchIndex) Search(context.Context, string, int) ([]driven.SearchHit, error) {
	return nil, errors.New("lexical index down")
}
