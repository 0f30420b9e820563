// Package llm holds the answer-generation prompt shared by the
// provider adapters.
package llm

import (
	"fmt"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// SystemPrompt instructs the model to answer only from the provided
// sources and to cite every claim in the verifiable tag grammar.
const SystemPrompt = `You are a careful assistant that answers questions using only the provided source passages.

Rules:
- Use ONLY the information in the sources below. If the sources do not answer the question, say so.
- Cite every factual claim with a tag in exactly this format: [doc_id | page | start:end]
- doc_id, page, start and end must be copied from the source header of the passage the claim comes from.
- start:end must address the specific character span supporting the claim, offsets relative to the page text as given in the source header.
- Do not invent documents, pages or offsets.`

// BuildUserPrompt renders the question with its retrieved context, one
// source block per chunk. The header carries the exact coordinates the
// model must echo in its citation tags.
func BuildUserPrompt(question string, chunks []domain.RetrievedChunk) string {
	var b strings.Builder

	b.WriteString("Sources:\n\n")
	for i, rc := range chunks {
		c := rc.Chunk
		fmt.Fprintf(&b, "Source %d: doc_id=%s, page=%d, char_start=%d, char_end=%d\n",
			i+1, c.DocID, c.Page, c.CharStart, c.CharEnd)
		if c.Heading != "" {
			fmt.Fprintf(&b, "Section: %s\n", c.Heading)
		}
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Question: %s\n", question)
	return b.String()
}
