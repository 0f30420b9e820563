package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/cache"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/index/dense"
	"github.com/veridoc-labs/veridoc-cli/internal/index/lexical"
)

// retrievalFixture wires a retrieval service over the in-memory store
// and real indexes, with a controllable embedder. The parameter is the
// port type on purpose: a nil argument must reach NewRetrieval as a
// nil interface, the way main wires an absent provider.
func retrievalFixture(t *testing.T, embedder driven.EmbeddingService, chunks []domain.Chunk) *Retrieval {
	t.Helper()
	ctx := context.Background()

	store := memory.NewDocumentStore()
	require.NoError(t, store.SaveChunks(ctx, chunks))

	svc := NewRetrieval(
		store,
		lexical.New(),
		dense.New(),
		embedder,
		cache.NewSession(store),
		domain.DefaultSettings(),
	)
	_, err := svc.BuildCorpus(ctx)
	require.NoError(t, err)
	return svc
}

func testChunks() []domain.Chunk {
	// c1 matches "tariff" lexically; c2 matches the query vector; c3
	// matches neither strongly.
	return []domain.Chunk{
		{
			ID: "c1", DocID: "doc1", Page: 1, CharStart: 0, CharEnd: 30,
			Text: "tariff schedules apply tariff rates", Policy: domain.PolicyStructural,
			Embedding: []float32{0, 1, 0},
		},
		{
			ID: "c2", DocID: "doc1", Page: 2, CharStart: 0, CharEnd: 30,
			Text: "customs duties on imported goods", Policy: domain.PolicyStructural,
			Embedding: []float32{1, 0, 0},
		},
		{
			ID: "c3", DocID: "doc1", Page: 3, CharStart: 0, CharEnd: 30,
			Text: "unrelated appendix material", Policy: domain.PolicyStructural,
			Embedding: []float32{0, 0, 1},
		},
	}
}

func TestRetrieval_FusesBothRankings(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.vectors["what tariff applies"] = []float32{1, 0, 0}

	svc := retrievalFixture(t, embedder, testChunks())

	results, err := svc.Retrieve(context.Background(), "what tariff applies", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// c1 leads lexically, c2 leads densely; both must surface.
	ids := make(map[string]domain.RetrievedChunk)
	for _, r := range results {
		ids[r.Chunk.ID] = r
	}
	require.Contains(t, ids, "c1")
	require.Contains(t, ids, "c2")

	assert.Equal(t, 1, ids["c1"].LexicalRank)
	assert.Equal(t, 1, ids["c2"].DenseRank)
	assert.Greater(t, ids["c1"].FusedScore, 0.0)

	// Hydrated chunks carry full text for citation display.
	assert.Equal(t, "tariff schedules apply tariff rates", ids["c1"].Chunk.Text)
}

func TestRetrieval_LexicalOnlyWithoutEmbedder(t *testing.T) {
	svc := retrievalFixture(t, nil, testChunks())

	results, err := svc.Retrieve(context.Background(), "tariff schedules", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, 0, results[0].DenseRank)
}

func TestRetrieval_DegradesWhenEmbedderFails(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.err = context.DeadlineExceeded

	svc := retrievalFixture(t, embedder, testChunks())

	results, err := svc.Retrieve(context.Background(), "tariff schedules", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "c1", results[0].Chunk.ID)
}

func TestRetrieval_BothSidesFailingIsAnError(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.err = context.DeadlineExceeded

	store := memory.NewDocumentStore()
	svc := NewRetrieval(
		store,
		failingSearchIndex{},
		dense.New(),
		embedder,
		cache.NewSession(store),
		domain.DefaultSettings(),
	)

	_, err := svc.Retrieve(context.Background(), "anything", 3)
	assert.Error(t, err)
}

func TestRetrieval_EmptyCorpus(t *testing.T) {
	svc := retrievalFixture(t, nil, nil)

	results, err := svc.Retrieve(context.Background(), "tariff", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieval_EmptyQuery(t *testing.T) {
	svc := retrievalFixture(t, nil, testChunks())

	_, err := svc.Retrieve(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrieval_DefaultKAndTruncation(t *testing.T) {
	embedder := newMockEmbedder(3)
	svc := retrievalFixture(t, embedder, testChunks())

	results, err := svc.Retrieve(context.Background(), "tariff customs appendix material", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// k <= 0 falls back to the configured top-k.
	results, err = svc.Retrieve(context.Background(), "tariff customs appendix material", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), domain.DefaultRetrievalTopK)
}

func TestRetrieval_HydrationUsesPreloadedCache(t *testing.T) {
	// After BuildCorpus the chunk cache holds every indexed chunk, so
	// deleting the backing rows must not affect hydration.
	ctx := context.Background()
	store := memory.NewDocumentStore()
	require.NoError(t, store.SaveChunks(ctx, testChunks()))

	svc := NewRetrieval(store, lexical.New(), dense.New(), nil,
		cache.NewSession(store), domain.DefaultSettings())
	_, err := svc.BuildCorpus(ctx)
	require.NoError(t, err)

	require.NoError(t, store.DeleteChunks(ctx, domain.PolicyStructural))

	results, err := svc.Retrieve(ctx, "tariff schedules", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "c1", results[0].Chunk.ID)
}
