// Package memory provides in-memory storage implementations,
// used by tests and throwaway corpora.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	pages     map[string]map[int]domain.Page
	chunks    map[string]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		pages:     make(map[string]map[int]domain.Page),
		chunks:    make(map[string]domain.Chunk),
	}
}

// SaveDocument stores or updates a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// SavePage stores the extracted text of one page.
func (s *DocumentStore) SavePage(_ context.Context, page *domain.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pages[page.DocID] == nil {
		s.pages[page.DocID] = make(map[int]domain.Page)
	}
	s.pages[page.DocID][page.Number] = *page
	return nil
}

// GetPage retrieves one page by (docID, number).
func (s *DocumentStore) GetPage(_ context.Context, docID string, number int) (*domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[docID][number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

// SaveChunks stores a batch of chunks.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// ListChunks returns all chunks cut under the given policy, ordered by
// (doc_id, page, char_start).
func (s *DocumentStore) ListChunks(_ context.Context, policy domain.ChunkPolicy) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, chunk := range s.chunks {
		if chunk.Policy == policy {
			result = append(result, chunk)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.DocID != b.DocID {
			return a.DocID < b.DocID
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.CharStart < b.CharStart
	})
	return result, nil
}

// DeleteChunks removes all chunks cut under the given policy.
func (s *DocumentStore) DeleteChunks(_ context.Context, policy domain.ChunkPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.Policy == policy {
			delete(s.chunks, id)
		}
	}
	return nil
}

// DeleteDocumentChunks removes one document's chunks cut under the
// given policy.
func (s *DocumentStore) DeleteDocumentChunks(_ context.Context, docID string, policy domain.ChunkPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.DocID == docID && chunk.Policy == policy {
			delete(s.chunks, id)
		}
	}
	return nil
}

// ListDocuments returns all documents in the corpus.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DeleteDocument removes a document with its pages and chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.pages, id)
	for chunkID, chunk := range s.chunks {
		if chunk.DocID == id {
			delete(s.chunks, chunkID)
		}
	}
	return nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}
