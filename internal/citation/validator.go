package citation

import (
	"context"
	"errors"
	"fmt"

	"github.com/veridoc-labs/veridoc-cli/internal/cache"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Validator checks parsed citations against stored page text. Page
// text is read through the session cache, so validating many tags
// against the same page costs one storage read.
type Validator struct {
	pages *cache.PageTextCache
}

// NewValidator creates a validator over the session's page text cache.
func NewValidator(pages *cache.PageTextCache) *Validator {
	return &Validator{pages: pages}
}

// Validate checks every extracted citation in answer text and returns
// the per-tag results with the aggregate grounding. Bad citations are
// results, not errors; the error return covers storage failures only.
func (v *Validator) Validate(ctx context.Context, text string) ([]domain.CitationResult, domain.Grounding, error) {
	results := Extract(text)
	for i := range results {
		if results[i].Status == domain.StatusUnparseable {
			continue
		}
		if err := v.check(ctx, &results[i]); err != nil {
			return nil, domain.Grounding{}, err
		}
	}
	return results, ComputeGrounding(results), nil
}

// check resolves one parsed citation against the page text and fills
// in Status and CitedText.
func (v *Validator) check(ctx context.Context, result *domain.CitationResult) error {
	cit := result.Citation

	pageText, err := v.pages.Get(ctx, cit.DocID, cit.Page)
	if err != nil {
		// A citation of a nonexistent document or page addresses no
		// real span.
		if errors.Is(err, domain.ErrNotFound) {
			result.Status = domain.StatusOffsetOutOfRange
			logger.Debug("citation %s cites unknown page %s/%d", result.Raw, cit.DocID, cit.Page)
			return nil
		}
		return fmt.Errorf("validating citation %s: %w", result.Raw, err)
	}

	if cit.CharStart < 0 || cit.CharEnd > len(pageText) || cit.CharStart >= cit.CharEnd {
		result.Status = domain.StatusOffsetOutOfRange
		return nil
	}

	result.CitedText = pageText[cit.CharStart:cit.CharEnd]
	if cit.Quote != "" && cit.Quote != result.CitedText {
		result.Status = domain.StatusTextMismatch
		return nil
	}

	result.Status = domain.StatusValid
	return nil
}

// ComputeGrounding aggregates citation outcomes into the grounding
// summary. An answer with no citations grounds at zero percent.
func ComputeGrounding(results []domain.CitationResult) domain.Grounding {
	g := domain.Grounding{Total: len(results)}
	for _, r := range results {
		if r.Status == domain.StatusValid {
			g.Valid++
		}
	}
	if g.Total > 0 {
		g.Percent = float64(g.Valid) / float64(g.Total) * 100
	}
	return g
}
