// Package domain defines the core business entities for Veridoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested PDF document
//   - Page: The extracted plain text of one document page
//   - Chunk: A retrievable span of page text with exact offsets
//   - Citation: A claimed (doc, page, offsets) span in a generated answer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
