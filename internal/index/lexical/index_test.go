package lexical

import (
	"context"
	"testing"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func buildIndex(t *testing.T, chunks ...domain.Chunk) *Index {
	t.Helper()
	idx := New()
	if err := idx.Build(context.Background(), chunks); err != nil {
		t.Fatalf("build: %v", err)
	}
	return idx
}

func TestIndex_EmptyIndex(t *testing.T) {
	idx := New()
	hits, err := idx.Search(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestIndex_TermPresenceMonotonicity(t *testing.T) {
	// Two otherwise-identical chunks; only one contains the query term.
	idx := buildIndex(t,
		domain.Chunk{ID: "with", Text: "penguin colonies nest near open water"},
		domain.Chunk{ID: "without", Text: "seal colonies nest near open water"},
	)

	hits, err := idx.Search(context.Background(), "penguin", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected only the containing chunk to score, got %d hits", len(hits))
	}
	if hits[0].ChunkID != "with" || hits[0].Score <= 0 {
		t.Errorf("containing chunk must strictly outscore the other: %+v", hits)
	}
}

func TestIndex_RanksHigherTermFrequencyFirst(t *testing.T) {
	idx := buildIndex(t,
		domain.Chunk{ID: "c1", Text: "cricket cricket cricket rules"},
		domain.Chunk{ID: "c2", Text: "cricket rules summary here"},
		domain.Chunk{ID: "c3", Text: "football rules summary here"},
	)

	hits, err := idx.Search(context.Background(), "cricket", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ChunkID != "c1" {
		t.Errorf("chunk with repeated term should rank first, got %s", hits[0].ChunkID)
	}
}

func TestIndex_TieBrokenByChunkID(t *testing.T) {
	// Identical text means identical scores; order must fall back to ID.
	idx := buildIndex(t,
		domain.Chunk{ID: "zzz", Text: "shared identical tokens"},
		domain.Chunk{ID: "aaa", Text: "shared identical tokens"},
	)

	hits, err := idx.Search(context.Background(), "identical", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ChunkID != "aaa" || hits[1].ChunkID != "zzz" {
		t.Errorf("ties must break by chunk ID ascending, got %s then %s",
			hits[0].ChunkID, hits[1].ChunkID)
	}
}

func TestIndex_StopWordOnlyQuery(t *testing.T) {
	idx := buildIndex(t, domain.Chunk{ID: "c1", Text: "the of and is"})

	hits, err := idx.Search(context.Background(), "the of", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("stop-word-only query should score nothing, got %d hits", len(hits))
	}
}

func TestIndex_LimitApplied(t *testing.T) {
	chunks := make([]domain.Chunk, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		chunks = append(chunks, domain.Chunk{ID: id, Text: "common token everywhere"})
	}
	idx := buildIndex(t, chunks...)

	hits, err := idx.Search(context.Background(), "common", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected limit of 2 hits, got %d", len(hits))
	}
}

func TestIndex_RebuildReplacesState(t *testing.T) {
	idx := buildIndex(t, domain.Chunk{ID: "old", Text: "obsolete content"})

	if err := idx.Build(context.Background(), []domain.Chunk{
		{ID: "new", Text: "fresh content"},
	}); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	hits, err := idx.Search(context.Background(), "obsolete", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("rebuilt index still serves old chunks: %+v", hits)
	}
}
