package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DocumentStore persists documents, pages and chunks.
// Backed by SQLite for durable storage; an in-memory implementation
// exists for tests and throwaway corpora.
type DocumentStore interface {
	// SaveDocument stores or updates a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SavePage stores the extracted text of one page.
	SavePage(ctx context.Context, page *domain.Page) error

	// GetPage retrieves one page by (docID, number).
	GetPage(ctx context.Context, docID string, number int) (*domain.Page, error)

	// SaveChunks stores a batch of chunks.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ListChunks returns all chunks cut under the given policy,
	// ordered by (doc_id, page, char_start).
	ListChunks(ctx context.Context, policy domain.ChunkPolicy) ([]domain.Chunk, error)

	// DeleteChunks removes all chunks cut under the given policy.
	// Used before re-ingesting a corpus under that policy.
	DeleteChunks(ctx context.Context, policy domain.ChunkPolicy) error

	// DeleteDocumentChunks removes one document's chunks cut under the
	// given policy. Chunks of the other policy are left in place so
	// both corpora can coexist over the same pages.
	DeleteDocumentChunks(ctx context.Context, docID string, policy domain.ChunkPolicy) error

	// ListDocuments returns all documents in the corpus.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document with its pages and chunks.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}

// PageExtractor turns a PDF file into per-page plain text.
type PageExtractor interface {
	// Extract reads the file at path and returns the document record
	// plus one Page per PDF page, in page order.
	Extract(ctx context.Context, path string) (*domain.Document, []domain.Page, error)
}
