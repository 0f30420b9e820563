package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyPage indicates a page had no usable extracted text.
	// Locally recoverable: ingestion skips the page and continues.
	ErrEmptyPage = errors.New("empty page text")

	// ErrUnknownPolicy indicates an unrecognised chunking policy name.
	ErrUnknownPolicy = errors.New("unknown chunking policy")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or failed. Semantic chunking and dense search need it;
	// the caller decides whether to fall back to the structural policy.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation service is not
	// configured. Retrieval still works; answer synthesis does not.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrDimensionMismatch indicates stored and freshly computed
	// embeddings disagree on vector size. Fatal for that corpus build.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCollaboratorTimeout indicates an embedding or generation call
	// exceeded its deadline. Surfaced as retryable; the core never
	// retries on its own.
	ErrCollaboratorTimeout = errors.New("collaborator call timed out")
)
