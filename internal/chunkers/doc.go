// Package chunkers provides page-text segmentation policies and the
// helpers they share.
//
// Both policies (structural, semantic) emit chunks whose offsets index
// the page text exactly: page.Text[c.CharStart:c.CharEnd] == c.Text.
// That equality is the citation-correctness invariant the validator
// later relies on, so every chunker runs Verify over its output before
// returning and fails loudly on a violation instead of clamping.
package chunkers
