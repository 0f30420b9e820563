package domain

import "time"

// Document represents an ingested PDF document.
// Documents are immutable once ingested; they disappear only when the
// corpus is explicitly cleared.
type Document struct {
	// ID is the unique, stable identifier for the document.
	ID string

	// Filename is the original file name the document was ingested from.
	Filename string

	// NumPages is the page count at ingestion time.
	NumPages int

	// IngestedAt is when the document entered the corpus.
	IngestedAt time.Time
}

// TextBlock is a font-tagged run of page text as reported by extraction.
// Blocks are only used as heading signals by the structural chunker; all
// chunk offsets are defined against Page.Text, never against blocks.
type TextBlock struct {
	// Text is the block content.
	Text string

	// FontSize is the rendered font size in points.
	FontSize float64

	// Bold reports whether the block uses a bold face.
	Bold bool
}

// Page holds the full extracted plain text of one document page.
// Pages are immutable once ingested. Every chunk and citation offset in
// the system is an index into Page.Text.
type Page struct {
	// DocID links to the owning Document.
	DocID string

	// Number is the 1-based page number. (DocID, Number) is unique.
	Number int

	// Text is the complete extracted plain text for the page.
	Text string

	// ContentHash is the hex SHA-256 of Text, recorded at ingestion.
	ContentHash string

	// Blocks are optional font-tagged runs used for heading detection.
	Blocks []TextBlock
}

// ChunkPolicy selects how page text is segmented into chunks.
type ChunkPolicy string

const (
	// PolicyStructural splits on detected heading boundaries into
	// token-budget windows with overlap.
	PolicyStructural ChunkPolicy = "structural"

	// PolicySemantic groups sentence units by embedding similarity
	// against the running chunk centroid.
	PolicySemantic ChunkPolicy = "semantic"
)

// Valid reports whether the policy is one of the recognised values.
func (p ChunkPolicy) Valid() bool {
	return p == PolicyStructural || p == PolicySemantic
}

// Chunk is one retrievable span of a page's text.
//
// Invariant: 0 <= CharStart < CharEnd <= len(page.Text) and
// Text == page.Text[CharStart:CharEnd], byte for byte. Chunkers verify
// this before emitting; a violation is a programming error, not data.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocID links to the owning Document.
	DocID string

	// Page is the 1-based page number the chunk was cut from.
	Page int

	// CharStart is the byte offset of the chunk's first byte in the page text.
	CharStart int

	// CharEnd is the byte offset one past the chunk's last byte.
	CharEnd int

	// Heading is the structural section heading, when one was detected.
	Heading string

	// Text is the exact page text between CharStart and CharEnd.
	Text string

	// TokenCount is the token length of Text under the shared tokenizer.
	TokenCount int

	// Policy records which chunking policy produced this chunk.
	// Chunk sets from different policies are disjoint.
	Policy ChunkPolicy

	// Embedding is the L2-normalised vector representation, populated
	// after the per-chunk embedding pass.
	Embedding []float32
}

// RetrievedChunk is a chunk hydrated from the fused ranking of one query.
type RetrievedChunk struct {
	// Chunk is the materialised chunk record.
	Chunk Chunk

	// FusedScore is the reciprocal rank fusion score.
	FusedScore float64

	// LexicalRank is the 1-based rank in the lexical list, 0 if absent.
	LexicalRank int

	// DenseRank is the 1-based rank in the dense list, 0 if absent.
	DenseRank int
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	Documents int
	Pages     int
	Chunks    int

	// SkippedPages counts pages dropped for having no usable text.
	SkippedPages int
}
