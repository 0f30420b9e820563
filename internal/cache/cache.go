// Package cache provides the session-scoped read caches for chunks and
// page text.
//
// A Session is created when a corpus is loaded and torn down (or
// invalidated) with it - the caches are handles passed into retrieval
// and validation, never package-level singletons, so lifetime and
// invalidation stay explicit and testable. Both caches guarantee the
// backing store is read at most once per key per session; concurrent
// first accesses on the same key are collapsed with singleflight.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Session bundles the per-corpus caches. Invalidation drops both
// together: chunk identity and page text always change in lockstep
// when the corpus is re-ingested or re-chunked.
type Session struct {
	chunks *ChunkCache
	pages  *PageTextCache
}

// NewSession creates the caches for one loaded corpus.
func NewSession(store driven.DocumentStore) *Session {
	return &Session{
		chunks: NewChunkCache(store),
		pages:  NewPageTextCache(store),
	}
}

// Chunks returns the session's chunk cache.
func (s *Session) Chunks() *ChunkCache {
	return s.chunks
}

// Pages returns the session's page text cache.
func (s *Session) Pages() *PageTextCache {
	return s.pages
}

// Invalidate drops all cached entries. Callers invalidate whenever the
// corpus is re-ingested or re-chunked.
func (s *Session) Invalidate() {
	s.chunks.Invalidate()
	s.pages.Invalidate()
}

// ChunkCache is a read-through cache from chunk ID to the materialised
// chunk record.
type ChunkCache struct {
	store driven.DocumentStore
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]domain.Chunk
}

// NewChunkCache creates an empty chunk cache over the store.
func NewChunkCache(store driven.DocumentStore) *ChunkCache {
	return &ChunkCache{
		store:   store,
		entries: make(map[string]domain.Chunk),
	}
}

// Get returns the chunk, reading the store only on the first miss for
// this ID. Concurrent misses on the same ID share a single store read.
func (c *ChunkCache) Get(ctx context.Context, id string) (*domain.Chunk, error) {
	c.mu.RLock()
	cached, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		// Re-check: a racing load may have populated the entry between
		// the read above and this flight starting.
		c.mu.RLock()
		cached, ok := c.entries[id]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		chunk, err := c.store.GetChunk(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading chunk %s: %w", id, err)
		}

		c.mu.Lock()
		c.entries[id] = *chunk
		c.mu.Unlock()
		return *chunk, nil
	})
	if err != nil {
		return nil, err
	}

	chunk := v.(domain.Chunk)
	return &chunk, nil
}

// Preload eagerly populates the cache with already-materialised chunks,
// typically the ones just loaded for an index build. Preloaded entries
// never cost a storage read.
func (c *ChunkCache) Preload(chunks []domain.Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, chunk := range chunks {
		c.entries[chunk.ID] = chunk
	}
}

// Len returns the number of cached chunks.
func (c *ChunkCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate drops all cached chunks.
func (c *ChunkCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.Chunk)
}

// PageTextCache is a read-through cache from (docID, page) to the full
// page text, used by citation validation.
type PageTextCache struct {
	store driven.DocumentStore
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]string
}

// NewPageTextCache creates an empty page text cache over the store.
func NewPageTextCache(store driven.DocumentStore) *PageTextCache {
	return &PageTextCache{
		store:   store,
		entries: make(map[string]string),
	}
}

func pageKey(docID string, page int) string {
	return docID + "\x00" + strconv.Itoa(page)
}

// Get returns the page text, reading the store only on the first miss
// for this (docID, page) key.
func (c *PageTextCache) Get(ctx context.Context, docID string, page int) (string, error) {
	key := pageKey(docID, page)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		p, err := c.store.GetPage(ctx, docID, page)
		if err != nil {
			return nil, fmt.Errorf("loading page %s/%d: %w", docID, page, err)
		}

		c.mu.Lock()
		c.entries[key] = p.Text
		c.mu.Unlock()
		return p.Text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops all cached page text.
func (c *PageTextCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}
