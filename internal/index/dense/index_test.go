package dense

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func chunk(id string, v ...float32) domain.Chunk {
	return domain.Chunk{ID: id, Embedding: v}
}

func TestIndex_EmptyIndex(t *testing.T) {
	idx := New()
	hits, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestIndex_ExactRanking(t *testing.T) {
	idx := New()
	err := idx.Build(context.Background(), []domain.Chunk{
		chunk("east", 1, 0),
		chunk("north", 0, 1),
		chunk("northeast", 1, 1),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}

	if hits[0].ChunkID != "east" {
		t.Errorf("nearest should be the parallel vector, got %s", hits[0].ChunkID)
	}
	if math.Abs(hits[0].Similarity-1.0) > 1e-6 {
		t.Errorf("parallel vectors should have similarity 1, got %f", hits[0].Similarity)
	}
	if hits[1].ChunkID != "northeast" {
		t.Errorf("expected northeast second, got %s", hits[1].ChunkID)
	}
	if math.Abs(hits[1].Similarity-1/math.Sqrt2) > 1e-6 {
		t.Errorf("45-degree vector should score 1/sqrt(2), got %f", hits[1].Similarity)
	}
	if hits[2].ChunkID != "north" {
		t.Errorf("expected orthogonal vector last, got %s", hits[2].ChunkID)
	}
}

func TestIndex_NormalisationAtInsertion(t *testing.T) {
	idx := New()
	// Same direction, very different magnitudes.
	err := idx.Build(context.Background(), []domain.Chunk{
		chunk("small", 0.001, 0),
		chunk("large", 900, 0),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	hits, err := idx.Search(context.Background(), []float32{5, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, h := range hits {
		if math.Abs(h.Similarity-1.0) > 1e-6 {
			t.Errorf("magnitude must not affect cosine similarity: %s scored %f", h.ChunkID, h.Similarity)
		}
	}
	// Equal similarity: tie must break by chunk ID ascending.
	if hits[0].ChunkID != "large" || hits[1].ChunkID != "small" {
		t.Errorf("tie break wrong: got %s then %s", hits[0].ChunkID, hits[1].ChunkID)
	}
}

func TestIndex_DimensionMismatchOnBuild(t *testing.T) {
	idx := New()
	err := idx.Build(context.Background(), []domain.Chunk{
		chunk("a", 1, 0, 0),
		chunk("b", 1, 0),
	})
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIndex_DimensionMismatchOnQuery(t *testing.T) {
	idx := New()
	if err := idx.Build(context.Background(), []domain.Chunk{chunk("a", 1, 0, 0)}); err != nil {
		t.Fatalf("build: %v", err)
	}

	_, err := idx.Search(context.Background(), []float32{1, 0}, 1)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIndex_SkipsChunksWithoutEmbeddings(t *testing.T) {
	idx := New()
	err := idx.Build(context.Background(), []domain.Chunk{
		chunk("a", 1, 0),
		{ID: "no-vector"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if idx.Size() != 1 {
		t.Errorf("expected 1 indexed vector, got %d", idx.Size())
	}
}

func TestIndex_TopKApplied(t *testing.T) {
	idx := New()
	err := idx.Build(context.Background(), []domain.Chunk{
		chunk("a", 1, 0),
		chunk("b", 0.9, 0.1),
		chunk("c", 0.5, 0.5),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected top-2, got %d hits", len(hits))
	}
}
