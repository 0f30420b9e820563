// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document, page and chunk persistence
//   - PageExtractor: Per-page text extraction from PDF files
//   - SearchIndex: Lexical BM25 scoring over chunk text
//   - VectorIndex: Exact nearest-neighbour search over chunk embeddings
//   - Chunker: Page text segmentation under one policy
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, dense
//     retrieval and the semantic chunking policy are disabled.
//   - GenerationService: Synthesises answers. Without it, `ask` is
//     disabled but retrieval and citation validation still work.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
