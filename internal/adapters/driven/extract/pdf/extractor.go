// Package pdf extracts page text and font-tagged blocks from PDF
// files.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads PDF files into documents and pages. Page text is
// assembled from the content stream block by block, so the same pass
// that produces the text also produces the font-tagged blocks the
// structural chunker uses for heading detection. Extraction is
// deterministic: the same file always yields byte-identical page text.
type Extractor struct{}

// NewExtractor creates a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements driven.PageExtractor. The document ID is the
// file name without its extension.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Document, []domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	doc := &domain.Document{
		ID:         strings.TrimSuffix(base, filepath.Ext(base)),
		Filename:   base,
		NumPages:   reader.NumPage(),
		IngestedAt: time.Now().UTC(),
	}

	pages := make([]domain.Page, 0, doc.NumPages)
	for num := 1; num <= doc.NumPages; num++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		page := reader.Page(num)
		text, blocks := extractPage(page)
		pages = append(pages, domain.Page{
			DocID:  doc.ID,
			Number: num,
			Text:   text,
			Blocks: blocks,
		})
	}

	return doc, pages, nil
}

// extractPage reads one page's content stream, tolerating pages the
// library cannot decode.
func extractPage(page pdf.Page) (string, []domain.TextBlock) {
	if page.V.IsNull() {
		return "", nil
	}
	return assembleBlocks(page.Content().Text)
}

// assembleBlocks turns a content stream into plain page text plus
// font-tagged blocks. Consecutive runs sharing a font face and size
// merge into one block; a change of either starts a new one. Blocks
// are joined with single newlines and the page text is exactly that
// join, so every block is locatable in the page text.
func assembleBlocks(texts []pdf.Text) (string, []domain.TextBlock) {
	if len(texts) == 0 {
		return "", nil
	}

	var (
		blocks  []domain.TextBlock
		current strings.Builder
		curFont string
		curSize float64
		lastY   float64
		started bool
	)

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		blocks = append(blocks, domain.TextBlock{
			Text:     text,
			FontSize: curSize,
			Bold:     isBoldFont(curFont),
		})
	}

	for _, t := range texts {
		if !started {
			curFont, curSize, lastY = t.Font, t.FontSize, t.Y
			started = true
		}
		if t.Font != curFont || t.FontSize != curSize {
			flush()
			curFont, curSize = t.Font, t.FontSize
		} else if t.Y != lastY && current.Len() > 0 {
			// Line break within the same face: keep the block, join
			// the lines with a space.
			current.WriteByte(' ')
		}
		lastY = t.Y
		current.WriteString(t.S)
	}
	flush()

	if len(blocks) == 0 {
		return "", nil
	}

	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n"), blocks
}

// isBoldFont reports whether a PDF font name declares a bold face.
func isBoldFont(font string) bool {
	lower := strings.ToLower(font)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
}
