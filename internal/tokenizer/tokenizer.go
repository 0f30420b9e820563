// Package tokenizer provides the shared text normalisation used by both
// the lexical index and the chunk-boundary heuristics.
//
// The lexical index is only meaningful when index-build time and query
// time tokenise identically, so every caller goes through this package
// rather than rolling its own splitting.
package tokenizer

import (
	"strings"
	"unicode"
)

// stopWords are dropped from lexical tokens. They carry no ranking
// signal and inflate term frequencies.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "and": {},
	"or": {}, "it": {}, "this": {}, "that": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "be": {}, "has": {}, "had": {}, "have": {},
	"been": {}, "its": {},
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Tokenize lower-cases the text, splits it into word tokens (letter,
// digit and underscore runs) and drops stop-words.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if _, stop := stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// WordSpans returns the byte spans of maximal non-whitespace runs, in
// order. Chunkers slice page text along these spans, so a window built
// from them always maps back to exact offsets.
func WordSpans(text string) []Span {
	var spans []Span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

// CountTokens returns the token length of text: the number of
// whitespace-delimited words. This is the unit all chunking budgets
// (window size, overlap) are measured in.
func CountTokens(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count
}
