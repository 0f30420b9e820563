package domain

// Citation is a source span asserted by generated answer text.
type Citation struct {
	// DocID is the cited document.
	DocID string

	// Page is the cited 1-based page number.
	Page int

	// CharStart is the claimed start offset into the page text.
	CharStart int

	// CharEnd is the claimed end offset (exclusive).
	CharEnd int

	// Quote is the answer's quoted span, when the tag carries one.
	// Empty when the tag used the short form.
	Quote string
}

// ValidationStatus classifies the outcome of checking one citation
// against the stored page text.
type ValidationStatus string

const (
	// StatusValid means the tag parsed, the offsets are in range, and
	// any quoted span matches the page text exactly.
	StatusValid ValidationStatus = "valid"

	// StatusOffsetOutOfRange means the offsets do not address a real
	// span of the cited page (or the page does not exist).
	StatusOffsetOutOfRange ValidationStatus = "offset_out_of_range"

	// StatusTextMismatch means the quoted span differs from the page
	// text at the claimed offsets.
	StatusTextMismatch ValidationStatus = "text_mismatch"

	// StatusUnparseable means the tag's fields could not be parsed.
	StatusUnparseable ValidationStatus = "unparseable"
)

// CitationResult is the per-citation validation outcome. Validation
// failures are recorded here, never returned as errors: the answer is
// still delivered with each citation's status attached.
type CitationResult struct {
	// Raw is the tag text as it appeared in the answer.
	Raw string

	// Citation is the parsed tag. Zero-valued when Status is
	// StatusUnparseable.
	Citation Citation

	// Status is the validation outcome.
	Status ValidationStatus

	// CitedText is the page text at the claimed offsets, populated only
	// when the offsets were in range.
	CitedText string
}

// Grounding summarises how many of an answer's citations verified.
type Grounding struct {
	// Total is the number of citation tags found in the answer.
	Total int

	// Valid is how many of them validated as StatusValid.
	Valid int

	// Percent is Valid/Total as a percentage, 0 when Total is 0.
	Percent float64
}

// Answer is the final product of one question: the generated text plus
// the verified provenance of every claim it makes.
type Answer struct {
	// Text is the generated answer, citation tags included.
	Text string

	// Sources are the context chunks handed to generation, in fused order.
	Sources []RetrievedChunk

	// Citations are the per-tag validation outcomes, in order of appearance.
	Citations []CitationResult

	// Grounding aggregates the citation outcomes.
	Grounding Grounding
}
