// Package citation parses and validates the citation tags emitted in
// generated answers.
//
// A tag has the form
//
//	[doc_id | page | start:end]
//
// with an optional quoted span as a fourth field:
//
//	[doc_id | page | start:end | "exact page text"]
//
// Offsets are byte offsets into the stored text of the cited page,
// end exclusive. Parsing is deliberately two-staged: a loose scan
// finds anything that looks like a tag, then a strict parse extracts
// the fields. A bracketed span that looks like a tag but fails the
// strict parse is reported as unparseable rather than silently
// skipped, so a model that mangles the format still shows up in the
// grounding numbers.
package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

var (
	// candidateRe finds bracketed spans containing at least one pipe.
	// Plain bracketed text like [1] or [see above] is not a tag.
	candidateRe = regexp.MustCompile(`\[[^\[\]]*\|[^\[\]]*\]`)

	// tagRe is the strict grammar for one tag.
	tagRe = regexp.MustCompile(
		`^\[\s*([^|\]]+?)\s*\|\s*(\d+)\s*\|\s*(\d+)\s*:\s*(\d+)\s*(?:\|\s*"([^"]*)"\s*)?\]$`)
)

// Extract scans answer text for citation tags, in order of appearance.
// Each candidate is either parsed into a Citation or marked
// unparseable; Extract itself never fails.
func Extract(text string) []domain.CitationResult {
	raws := candidateRe.FindAllString(text, -1)
	if len(raws) == 0 {
		return nil
	}

	results := make([]domain.CitationResult, 0, len(raws))
	for _, raw := range raws {
		result := domain.CitationResult{Raw: raw}
		cit, ok := parseTag(raw)
		if !ok {
			result.Status = domain.StatusUnparseable
		} else {
			result.Citation = cit
		}
		results = append(results, result)
	}
	return results
}

// parseTag applies the strict grammar to one candidate.
func parseTag(raw string) (domain.Citation, bool) {
	m := tagRe.FindStringSubmatch(raw)
	if m == nil {
		return domain.Citation{}, false
	}

	docID := strings.TrimSpace(m[1])
	if docID == "" {
		return domain.Citation{}, false
	}

	page, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.Citation{}, false
	}
	start, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.Citation{}, false
	}
	end, err := strconv.Atoi(m[4])
	if err != nil {
		return domain.Citation{}, false
	}

	return domain.Citation{
		DocID:     docID,
		Page:      page,
		CharStart: start,
		CharEnd:   end,
		Quote:     m[5],
	}, true
}
