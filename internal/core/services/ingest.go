package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// embedBatchSize caps how many chunk texts go to the embedding
// collaborator per request.
const embedBatchSize = 100

// Ensure Ingester implements the driving port.
var _ driving.IngestService = (*Ingester)(nil)

// Ingester brings PDF files into the corpus: extract pages, persist
// them, cut chunks under the configured policy, embed them, store them.
type Ingester struct {
	store     driven.DocumentStore
	extractor driven.PageExtractor
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	settings  domain.Settings
}

// NewIngester creates the ingestion service. embedder may be nil, in
// which case chunks are stored without embeddings and dense retrieval
// stays disabled for this corpus.
func NewIngester(
	store driven.DocumentStore,
	extractor driven.PageExtractor,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	settings domain.Settings,
) *Ingester {
	return &Ingester{
		store:     store,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		settings:  settings,
	}
}

// IngestFile implements driving.IngestService.
func (s *Ingester) IngestFile(ctx context.Context, path string) (*domain.IngestReport, error) {
	logger.Section("Ingesting " + filepath.Base(path))

	doc, pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	// Re-ingesting replaces only this document's chunks under the
	// active policy. The other policy's chunk set stays in place so
	// structural and semantic corpora coexist over the same pages.
	policy := domain.ChunkPolicy(s.chunker.Name())
	if err := s.store.DeleteDocumentChunks(ctx, doc.ID, policy); err != nil {
		return nil, fmt.Errorf("clearing %s chunks of %s: %w", policy, doc.ID, err)
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document %s: %w", doc.ID, err)
	}

	report := &domain.IngestReport{Documents: 1}
	var chunks []domain.Chunk

	for i := range pages {
		page := &pages[i]
		if err := checkPageText(page); err != nil {
			logger.Warn("skipping %v", err)
			report.SkippedPages++
			continue
		}
		sum := sha256.Sum256([]byte(page.Text))
		page.ContentHash = hex.EncodeToString(sum[:])

		if err := s.store.SavePage(ctx, page); err != nil {
			return nil, fmt.Errorf("saving page %d of %s: %w", page.Number, doc.ID, err)
		}
		report.Pages++

		pageChunks, err := s.chunker.Chunk(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("chunking page %d of %s: %w", page.Number, doc.ID, err)
		}
		chunks = append(chunks, pageChunks...)
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks of %s: %w", doc.ID, err)
	}
	report.Chunks = len(chunks)

	logger.Info("ingested %s: %d pages, %d chunks (%s policy), %d pages skipped",
		doc.ID, report.Pages, report.Chunks, s.chunker.Name(), report.SkippedPages)
	return report, nil
}

// IngestDir implements driving.IngestService.
func (s *Ingester) IngestDir(ctx context.Context, dir string) (*domain.IngestReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	total := &domain.IngestReport{}
	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		found++

		report, err := s.IngestFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			// One bad file never aborts the batch.
			logger.Warn("skipping %s: %v", entry.Name(), err)
			continue
		}
		total.Documents += report.Documents
		total.Pages += report.Pages
		total.Chunks += report.Chunks
		total.SkippedPages += report.SkippedPages
	}

	if found == 0 {
		return nil, fmt.Errorf("%w: no .pdf files in %s", domain.ErrNotFound, dir)
	}
	return total, nil
}

// checkPageText reports ErrEmptyPage for pages with no extractable
// text, typically scanned pages without an OCR layer.
func checkPageText(page *domain.Page) error {
	if strings.TrimSpace(page.Text) == "" {
		return fmt.Errorf("%w: %s page %d", domain.ErrEmptyPage, page.DocID, page.Number)
	}
	return nil
}

// embedChunks fills in Embedding for every chunk, batching requests.
// The vector size is checked against both the collaborator's reported
// dimensions and the configured pin before anything is stored.
func (s *Ingester) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.embedder == nil || len(chunks) == 0 {
		return nil
	}

	wantDim := s.embedder.Dimensions()
	if s.settings.EmbeddingDimension > 0 && s.settings.EmbeddingDimension != wantDim {
		return fmt.Errorf("%w: model %s reports %d dimensions, config pins %d",
			domain.ErrDimensionMismatch, s.embedder.ModelName(), wantDim, s.settings.EmbeddingDimension)
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding batch returned %d vectors for %d texts", len(vectors), len(batch))
		}
		for i, vec := range vectors {
			if len(vec) != wantDim {
				return fmt.Errorf("%w: got %d-dimension vector, want %d",
					domain.ErrDimensionMismatch, len(vec), wantDim)
			}
			batch[i].Embedding = vec
		}
	}
	return nil
}
