package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_DocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &domain.Document{
		ID:         "treaty",
		Filename:   "treaty.pdf",
		NumPages:   12,
		IngestedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if docs[0].ID != "treaty" || docs[0].NumPages != 12 {
		t.Errorf("document = %+v", docs[0])
	}
}

func TestStore_PageRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveDocument(ctx, &domain.Document{ID: "doc1", Filename: "a.pdf", NumPages: 1, IngestedAt: time.Now()})
	page := &domain.Page{DocID: "doc1", Number: 1, Text: "Hello world", ContentHash: "abc123"}
	if err := store.SavePage(ctx, page); err != nil {
		t.Fatalf("SavePage: %v", err)
	}

	got, err := store.GetPage(ctx, "doc1", 1)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.Text != "Hello world" || got.ContentHash != "abc123" {
		t.Errorf("page = %+v", got)
	}

	// Upsert replaces the text.
	page.Text = "Hello again"
	if err := store.SavePage(ctx, page); err != nil {
		t.Fatalf("SavePage upsert: %v", err)
	}
	got, _ = store.GetPage(ctx, "doc1", 1)
	if got.Text != "Hello again" {
		t.Errorf("upserted text = %q", got.Text)
	}

	if _, err := store.GetPage(ctx, "doc1", 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing page error = %v, want ErrNotFound", err)
	}
}

func TestStore_ChunkRoundTripWithEmbedding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveDocument(ctx, &domain.Document{ID: "doc1", Filename: "a.pdf", NumPages: 1, IngestedAt: time.Now()})
	chunk := domain.Chunk{
		ID: "c1", DocID: "doc1", Page: 1, CharStart: 0, CharEnd: 11,
		Heading: "Article 1", Text: "Hello world", TokenCount: 2,
		Policy: domain.PolicyStructural, Embedding: []float32{0.25, -1.5, 3},
	}
	if err := store.SaveChunks(ctx, []domain.Chunk{chunk}); err != nil {
		t.Fatalf("SaveChunks: %v", err)
	}

	got, err := store.GetChunk(ctx, "c1")
	if err != nil {
		t.Fatalf("GetChunk: %v", err)
	}
	if got.Text != "Hello world" || got.Heading != "Article 1" || got.Policy != domain.PolicyStructural {
		t.Errorf("chunk = %+v", got)
	}
	if len(got.Embedding) != 3 || got.Embedding[0] != 0.25 || got.Embedding[1] != -1.5 || got.Embedding[2] != 3 {
		t.Errorf("embedding round trip = %v", got.Embedding)
	}
}

func TestStore_ListAndDeleteByPolicy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveDocument(ctx, &domain.Document{ID: "doc1", Filename: "a.pdf", NumPages: 2, IngestedAt: time.Now()})
	err := store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocID: "doc1", Page: 1, CharStart: 40, CharEnd: 50, Text: "b", Policy: domain.PolicyStructural},
		{ID: "c1", DocID: "doc1", Page: 1, CharStart: 0, CharEnd: 10, Text: "a", Policy: domain.PolicyStructural},
		{ID: "c3", DocID: "doc1", Page: 2, CharStart: 0, CharEnd: 10, Text: "c", Policy: domain.PolicySemantic},
	})
	if err != nil {
		t.Fatalf("SaveChunks: %v", err)
	}

	structural, err := store.ListChunks(ctx, domain.PolicyStructural)
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	if len(structural) != 2 || structural[0].ID != "c1" || structural[1].ID != "c2" {
		t.Errorf("structural order = %+v", structural)
	}

	if err := store.DeleteChunks(ctx, domain.PolicySemantic); err != nil {
		t.Fatalf("DeleteChunks: %v", err)
	}
	if _, err := store.GetChunk(ctx, "c3"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted chunk error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetChunk(ctx, "c1"); err != nil {
		t.Errorf("other policy chunk removed: %v", err)
	}
}

func TestStore_DeleteDocumentChunksScopedByDocAndPolicy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveDocument(ctx, &domain.Document{ID: "doc1", Filename: "a.pdf", NumPages: 1, IngestedAt: time.Now()})
	_ = store.SaveDocument(ctx, &domain.Document{ID: "doc2", Filename: "b.pdf", NumPages: 1, IngestedAt: time.Now()})
	err := store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocID: "doc1", Page: 1, CharStart: 0, CharEnd: 5, Text: "a", Policy: domain.PolicyStructural},
		{ID: "c2", DocID: "doc1", Page: 1, CharStart: 0, CharEnd: 5, Text: "a", Policy: domain.PolicySemantic},
		{ID: "c3", DocID: "doc2", Page: 1, CharStart: 0, CharEnd: 5, Text: "b", Policy: domain.PolicyStructural},
	})
	if err != nil {
		t.Fatalf("SaveChunks: %v", err)
	}

	if err := store.DeleteDocumentChunks(ctx, "doc1", domain.PolicyStructural); err != nil {
		t.Fatalf("DeleteDocumentChunks: %v", err)
	}

	if _, err := store.GetChunk(ctx, "c1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("doc1 structural chunk error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetChunk(ctx, "c2"); err != nil {
		t.Errorf("doc1 semantic chunk removed: %v", err)
	}
	if _, err := store.GetChunk(ctx, "c3"); err != nil {
		t.Errorf("doc2 structural chunk removed: %v", err)
	}
}

func TestStore_DeleteDocumentCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveDocument(ctx, &domain.Document{ID: "doc1", Filename: "a.pdf", NumPages: 1, IngestedAt: time.Now()})
	_ = store.SavePage(ctx, &domain.Page{DocID: "doc1", Number: 1, Text: "x", ContentHash: "h"})
	_ = store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocID: "doc1", Page: 1, CharStart: 0, CharEnd: 1, Text: "x", Policy: domain.PolicyStructural},
	})

	if err := store.DeleteDocument(ctx, "doc1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := store.GetPage(ctx, "doc1", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("page survived cascade: %v", err)
	}
	if _, err := store.GetChunk(ctx, "c1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("chunk survived cascade: %v", err)
	}
}

func TestStore_MigrationIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Close()

	// Reopening over the same file must not rerun applied migrations.
	store, err = NewStore(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	store.Close()
}
