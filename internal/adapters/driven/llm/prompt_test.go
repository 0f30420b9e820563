package llm

import (
	"strings"
	"testing"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func TestBuildUserPrompt(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		{Chunk: domain.Chunk{
			DocID: "treaty", Page: 3, CharStart: 120, CharEnd: 480,
			Heading: "Article 2", Text: "Tariff concessions apply.",
		}},
		{Chunk: domain.Chunk{
			DocID: "annex", Page: 1, CharStart: 0, CharEnd: 50,
			Text: "Annex provisions.",
		}},
	}

	prompt := BuildUserPrompt("what concessions apply", chunks)

	for _, want := range []string{
		"Source 1: doc_id=treaty, page=3, char_start=120, char_end=480",
		"Section: Article 2",
		"Tariff concessions apply.",
		"Source 2: doc_id=annex, page=1, char_start=0, char_end=50",
		"Question: what concessions apply",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// No Section line for the headingless chunk.
	if strings.Count(prompt, "Section:") != 1 {
		t.Errorf("unexpected Section lines:\n%s", prompt)
	}
}
