package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// RetrievalService ranks corpus chunks against a question.
type RetrievalService interface {
	// Retrieve runs lexical and dense ranking independently, fuses the
	// two lists with reciprocal rank fusion, and returns the top k
	// chunks hydrated through the session cache. k <= 0 selects the
	// configured default. An empty or unbuilt corpus returns an empty
	// slice, not an error.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}

// AnswerService answers questions over the ingested corpus.
type AnswerService interface {
	// Ask retrieves context for the question, generates an answer, and
	// validates every citation the answer makes against stored page
	// text. Per-citation failures are reported in the result, never as
	// an error.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// ValidateText runs citation extraction and validation over
	// already-generated answer text, without calling generation.
	ValidateText(ctx context.Context, answerText string) ([]domain.CitationResult, domain.Grounding, error)
}

// IngestService brings PDF files into the corpus.
type IngestService interface {
	// IngestFile extracts, persists, chunks and embeds a single PDF.
	IngestFile(ctx context.Context, path string) (*domain.IngestReport, error)

	// IngestDir ingests every .pdf file directly under dir.
	IngestDir(ctx context.Context, dir string) (*domain.IngestReport, error)
}
