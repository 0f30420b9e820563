package chunkers

import (
	"fmt"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/tokenizer"
)

// Window is a half-open byte range into page text, absolute offsets.
type Window struct {
	Start int
	End   int
}

// SlideWindows splits text into overlapping token windows. Windows are
// cut along word spans so each one maps back to exact byte offsets;
// base is the offset of text within the page. A text at or under the
// window budget yields a single window, so a section shorter than the
// overlap never produces a degenerate overlap-only window.
func SlideWindows(text string, base, windowTokens, overlapTokens int) []Window {
	spans := tokenizer.WordSpans(text)
	if len(spans) == 0 {
		return nil
	}

	step := windowTokens - overlapTokens
	if step < 1 {
		step = windowTokens
	}

	var windows []Window
	for start := 0; start < len(spans); start += step {
		end := start + windowTokens
		if end > len(spans) {
			end = len(spans)
		}
		windows = append(windows, Window{
			Start: base + spans[start].Start,
			End:   base + spans[end-1].End,
		})
		if end == len(spans) {
			break
		}
	}
	return windows
}

// TrimOffsets strips leading and trailing whitespace from text and
// returns the stripped text with its offsets adjusted, so the slice
// equality against page text survives the trim.
func TrimOffsets(text string, base int) (string, int, int) {
	lead := 0
	for lead < len(text) && isSpaceByte(text[lead]) {
		lead++
	}
	tail := len(text)
	for tail > lead && isSpaceByte(text[tail-1]) {
		tail--
	}
	return text[lead:tail], base + lead, base + tail
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Verify checks the offset invariant over emitted chunks: valid bounds,
// exact text equality, and monotonically non-decreasing starts. A
// failure here is a chunker bug and aborts the corpus build.
func Verify(page *domain.Page, chunks []domain.Chunk) error {
	prevStart := 0
	for i, c := range chunks {
		if c.CharStart < 0 || c.CharStart >= c.CharEnd || c.CharEnd > len(page.Text) {
			return fmt.Errorf("chunk %d: offsets [%d:%d) invalid for page of %d bytes",
				i, c.CharStart, c.CharEnd, len(page.Text))
		}
		if page.Text[c.CharStart:c.CharEnd] != c.Text {
			return fmt.Errorf("chunk %d: text does not match page text at [%d:%d)",
				i, c.CharStart, c.CharEnd)
		}
		if c.CharStart < prevStart {
			return fmt.Errorf("chunk %d: start offset %d precedes previous start %d",
				i, c.CharStart, prevStart)
		}
		prevStart = c.CharStart
	}
	return nil
}
