// Package structural provides the heading-aware chunking policy.
package structural

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/veridoc-labs/veridoc-cli/internal/chunkers"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/tokenizer"
)

// DefaultWindowTokens is the default token budget per window.
const DefaultWindowTokens = domain.DefaultStructuralWindowTokens

// DefaultOverlapTokens is the default overlap between consecutive
// windows within one section.
const DefaultOverlapTokens = domain.DefaultStructuralOverlapTokens

// Heading patterns that mark a block as a section boundary regardless
// of its font.
var (
	numberedHeading = regexp.MustCompile(`^(Article|Section|Chapter|Part|ARTICLE|SECTION)\s+\d+`)
	dottedHeading   = regexp.MustCompile(`^\d+\.\d+`)
)

// Chunker splits page text on detected heading boundaries into
// token-budget windows with overlap. Windows never cross a page
// boundary because chunking is per page by construction.
type Chunker struct {
	windowTokens  int
	overlapTokens int
}

// Option configures the structural chunker.
type Option func(*Chunker)

// WithWindowTokens sets the token budget per window.
func WithWindowTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.windowTokens = n
		}
	}
}

// WithOverlapTokens sets the overlap between consecutive windows.
func WithOverlapTokens(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapTokens = n
		}
	}
}

// New creates a structural chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		windowTokens:  DefaultWindowTokens,
		overlapTokens: DefaultOverlapTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlapTokens >= c.windowTokens {
		c.overlapTokens = c.windowTokens / 4
	}
	return c
}

// Name returns the policy name.
func (c *Chunker) Name() string {
	return string(domain.PolicyStructural)
}

// Chunk splits the page into section-aligned windows.
func (c *Chunker) Chunk(_ context.Context, page *domain.Page) ([]domain.Chunk, error) {
	if strings.TrimSpace(page.Text) == "" {
		return nil, nil
	}

	var chunks []domain.Chunk
	for _, sec := range sections(page) {
		text, start, end := chunkers.TrimOffsets(page.Text[sec.start:sec.end], sec.start)
		if text == "" {
			continue
		}

		if count := tokenizer.CountTokens(text); count <= c.windowTokens {
			chunks = append(chunks, c.emit(page, start, end, sec.heading))
			continue
		}

		for _, w := range chunkers.SlideWindows(text, start, c.windowTokens, c.overlapTokens) {
			chunks = append(chunks, c.emit(page, w.Start, w.End, sec.heading))
		}
	}

	if err := chunkers.Verify(page, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (c *Chunker) emit(page *domain.Page, start, end int, heading string) domain.Chunk {
	text := page.Text[start:end]
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocID:      page.DocID,
		Page:       page.Number,
		CharStart:  start,
		CharEnd:    end,
		Heading:    heading,
		Text:       text,
		TokenCount: tokenizer.CountTokens(text),
		Policy:     domain.PolicyStructural,
	}
}

// section is a heading-delimited span of the page text.
type section struct {
	heading string
	start   int
	end     int
}

// sections locates heading boundaries in the page text and returns the
// spans between them. A page without detectable headings is one section.
func sections(page *domain.Page) []section {
	headings := detectHeadings(page.Blocks)

	type position struct {
		offset  int
		heading string
	}
	var positions []position
	searchFrom := 0
	for _, h := range headings {
		idx := strings.Index(page.Text[searchFrom:], h)
		if idx < 0 {
			continue
		}
		positions = append(positions, position{offset: searchFrom + idx, heading: h})
		searchFrom += idx + len(h)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].offset < positions[j].offset })

	if len(positions) == 0 {
		return []section{{start: 0, end: len(page.Text)}}
	}

	var secs []section
	if first := positions[0].offset; first > 0 && strings.TrimSpace(page.Text[:first]) != "" {
		secs = append(secs, section{start: 0, end: first})
	}
	for i, pos := range positions {
		end := len(page.Text)
		if i+1 < len(positions) {
			end = positions[i+1].offset
		}
		secs = append(secs, section{heading: pos.heading, start: pos.offset, end: end})
	}
	return secs
}

// detectHeadings returns the heading strings among the page's font-tagged
// blocks: noticeably larger than the page median, bold at or above the
// median, or matching a numbered-heading pattern.
func detectHeadings(blocks []domain.TextBlock) []string {
	var sizes []float64
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) != "" {
			sizes = append(sizes, b.FontSize)
		}
	}
	if len(sizes) == 0 {
		return nil
	}
	sort.Float64s(sizes)
	median := sizes[len(sizes)/2]

	var headings []string
	for _, b := range blocks {
		txt := strings.TrimSpace(b.Text)
		if txt == "" {
			continue
		}
		isHeading := b.FontSize > median*1.15 ||
			(b.Bold && b.FontSize >= median) ||
			numberedHeading.MatchString(txt) ||
			dottedHeading.MatchString(txt)
		if isHeading {
			headings = append(headings, txt)
		}
	}
	return headings
}
