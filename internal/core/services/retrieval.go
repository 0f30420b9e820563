// Package services implements the core application services: corpus
// building, hybrid retrieval, answer synthesis with citation
// validation, and PDF ingestion. Services depend only on the driven
// ports and the session caches; adapters are wired in by the CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/cache"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure Retrieval implements the driving port.
var _ driving.RetrievalService = (*Retrieval)(nil)

// Retrieval runs hybrid search over a built corpus session: BM25 and
// dense similarity ranked independently, merged with reciprocal rank
// fusion, results hydrated through the chunk cache.
type Retrieval struct {
	store    driven.DocumentStore
	search   driven.SearchIndex
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
	session  *cache.Session
	settings domain.Settings
}

// NewRetrieval creates the retrieval service. embedder may be nil, in
// which case retrieval is lexical-only.
func NewRetrieval(
	store driven.DocumentStore,
	search driven.SearchIndex,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	session *cache.Session,
	settings domain.Settings,
) *Retrieval {
	return &Retrieval{
		store:    store,
		search:   search,
		vectors:  vectors,
		embedder: embedder,
		session:  session,
		settings: settings,
	}
}

// BuildCorpus loads every chunk stored under the configured policy and
// builds both indexes from the same snapshot. The chunk cache is
// preloaded so later hydration never touches storage for these chunks.
func (s *Retrieval) BuildCorpus(ctx context.Context) (int, error) {
	s.session.Invalidate()

	chunks, err := s.store.ListChunks(ctx, s.settings.ChunkingPolicy)
	if err != nil {
		return 0, fmt.Errorf("listing corpus chunks: %w", err)
	}
	if len(chunks) == 0 {
		logger.Warn("no chunks stored under policy %q; run ingest first", s.settings.ChunkingPolicy)
	}

	if err := s.search.Build(ctx, chunks); err != nil {
		return 0, fmt.Errorf("building lexical index: %w", err)
	}
	if err := s.vectors.Build(ctx, chunks); err != nil {
		return 0, fmt.Errorf("building dense index: %w", err)
	}

	s.session.Chunks().Preload(chunks)
	logger.Info("corpus built: %d chunks (policy %s)", len(chunks), s.settings.ChunkingPolicy)
	return len(chunks), nil
}

// Retrieve implements driving.RetrievalService.
func (s *Retrieval) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.settings.RetrievalTopK
	}
	// Each side over-fetches so fusion has real overlap to work with.
	innerLimit := k * 2

	var (
		wg      sync.WaitGroup
		lexical []string
		dense   []string
		lexErr  error
		denErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		hits, err := s.search.Search(ctx, query, innerLimit)
		if err != nil {
			lexErr = err
			return
		}
		lexical = make([]string, len(hits))
		for i, h := range hits {
			lexical[i] = h.ChunkID
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ids, err := s.denseSearch(ctx, query, innerLimit)
		if err != nil {
			denErr = err
			return
		}
		dense = ids
	}()

	wg.Wait()

	// One side failing degrades to the other; both failing is an error.
	if lexErr != nil && denErr != nil {
		return nil, fmt.Errorf("both retrievers failed: lexical: %v; dense: %w", lexErr, denErr)
	}
	if lexErr != nil {
		logger.Warn("lexical search failed, using dense ranking only: %v", lexErr)
	}
	if denErr != nil && !errors.Is(denErr, domain.ErrEmbeddingUnavailable) {
		logger.Warn("dense search failed, using lexical ranking only: %v", denErr)
	}

	fused := fuseRanked(lexical, dense, s.settings.RRFKConstant)
	if len(fused) > k {
		fused = fused[:k]
	}
	return s.hydrate(ctx, fused)
}

// denseSearch embeds the query and searches the vector index.
func (s *Retrieval) denseSearch(ctx context.Context, query string, limit int) ([]string, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.vectors.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("searching dense index: %w", err)
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}
	return ids, nil
}

// hydrate materialises fused hits through the chunk cache. A hit whose
// chunk has vanished from storage is dropped with a warning; ranking
// state and storage can briefly disagree during re-ingestion.
func (s *Retrieval) hydrate(ctx context.Context, fused []fusedHit) ([]domain.RetrievedChunk, error) {
	results := make([]domain.RetrievedChunk, 0, len(fused))
	for _, hit := range fused {
		chunk, err := s.session.Chunks().Get(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("ranked chunk %s no longer in storage, dropping", hit.ChunkID)
				continue
			}
			return nil, err
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:       *chunk,
			FusedScore:  hit.Score,
			LexicalRank: hit.LexicalRank,
			DenseRank:   hit.DenseRank,
		})
	}
	return results, nil
}
