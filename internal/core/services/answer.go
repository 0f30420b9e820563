package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/citation"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure Answerer implements the driving port.
var _ driving.AnswerService = (*Answerer)(nil)

// noContextAnswer is returned without calling generation when
// retrieval finds nothing to ground an answer on.
const noContextAnswer = "No relevant passages were found in the corpus for this question."

// Answerer turns a question into a cited answer: retrieve context,
// generate, then validate every citation the generated text asserts.
type Answerer struct {
	retrieval driving.RetrievalService
	generator driven.GenerationService
	validator *citation.Validator
	settings  domain.Settings
}

// NewAnswerer creates the answer service. generator may be nil, which
// disables Ask but leaves ValidateText working.
func NewAnswerer(
	retrieval driving.RetrievalService,
	generator driven.GenerationService,
	validator *citation.Validator,
	settings domain.Settings,
) *Answerer {
	return &Answerer{
		retrieval: retrieval,
		generator: generator,
		validator: validator,
		settings:  settings,
	}
}

// Ask implements driving.AnswerService.
func (s *Answerer) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, domain.ErrGenerationUnavailable
	}

	sources, err := s.retrieval.Retrieve(ctx, question, s.settings.RetrievalTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}
	if len(sources) == 0 {
		logger.Info("no context retrieved, skipping generation")
		return &domain.Answer{Text: noContextAnswer}, nil
	}

	text, err := s.generator.Answer(ctx, question, sources)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	results, grounding, err := s.validator.Validate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("validating answer citations: %w", err)
	}
	logger.Info("answer grounding: %d/%d citations valid (%.0f%%)",
		grounding.Valid, grounding.Total, grounding.Percent)

	return &domain.Answer{
		Text:      text,
		Sources:   sources,
		Citations: results,
		Grounding: grounding,
	}, nil
}

// ValidateText implements driving.AnswerService.
func (s *Answerer) ValidateText(ctx context.Context, answerText string) ([]domain.CitationResult, domain.Grounding, error) {
	return s.validator.Validate(ctx, answerText)
}
