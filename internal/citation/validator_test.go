package citation

import (
	"context"
	"testing"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/cache"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func newValidator(t *testing.T, pages ...domain.Page) *Validator {
	t.Helper()
	store := memory.NewDocumentStore()
	for i := range pages {
		if err := store.SavePage(context.Background(), &pages[i]); err != nil {
			t.Fatalf("SavePage: %v", err)
		}
	}
	return NewValidator(cache.NewPageTextCache(store))
}

func TestValidator_ValidCitation(t *testing.T) {
	v := newValidator(t, domain.Page{DocID: "doc1", Number: 1, Text: "Hello world, this is page one."})

	results, grounding, err := v.Validate(context.Background(), "Greeting found [doc1 | 1 | 0:5].")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Status != domain.StatusValid {
		t.Errorf("status = %q, want valid", results[0].Status)
	}
	if results[0].CitedText != "Hello" {
		t.Errorf("cited text = %q, want %q", results[0].CitedText, "Hello")
	}
	if grounding.Total != 1 || grounding.Valid != 1 || grounding.Percent != 100 {
		t.Errorf("grounding = %+v", grounding)
	}
}

func TestValidator_OffsetOutOfRange(t *testing.T) {
	v := newValidator(t, domain.Page{DocID: "doc1", Number: 1, Text: "short"})

	cases := map[string]string{
		"end past page text": "[doc1 | 1 | 0:99]",
		"empty range":        "[doc1 | 1 | 3:3]",
		"inverted range":     "[doc1 | 1 | 4:2]",
		"unknown page":       "[doc1 | 7 | 0:3]",
		"unknown document":   "[ghost | 1 | 0:3]",
	}
	for name, tag := range cases {
		results, _, err := v.Validate(context.Background(), tag)
		if err != nil {
			t.Fatalf("%s: Validate: %v", name, err)
		}
		if results[0].Status != domain.StatusOffsetOutOfRange {
			t.Errorf("%s: status = %q, want offset_out_of_range", name, results[0].Status)
		}
		if results[0].CitedText != "" {
			t.Errorf("%s: cited text populated for bad offsets: %q", name, results[0].CitedText)
		}
	}
}

func TestValidator_TextMismatch(t *testing.T) {
	v := newValidator(t, domain.Page{DocID: "doc1", Number: 1, Text: "Hello world"})

	results, grounding, err := v.Validate(context.Background(), `[doc1 | 1 | 0:5 | "Howdy"]`)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if results[0].Status != domain.StatusTextMismatch {
		t.Errorf("status = %q, want text_mismatch", results[0].Status)
	}
	// The page text at the offsets is still reported so the caller can
	// show what the span actually says.
	if results[0].CitedText != "Hello" {
		t.Errorf("cited text = %q, want %q", results[0].CitedText, "Hello")
	}
	if grounding.Valid != 0 {
		t.Errorf("grounding counted a mismatch as valid: %+v", grounding)
	}
}

func TestValidator_QuoteMatch(t *testing.T) {
	v := newValidator(t, domain.Page{DocID: "doc1", Number: 1, Text: "Hello world"})

	results, _, err := v.Validate(context.Background(), `[doc1 | 1 | 6:11 | "world"]`)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if results[0].Status != domain.StatusValid {
		t.Errorf("status = %q, want valid", results[0].Status)
	}
}

func TestValidator_MixedAnswer(t *testing.T) {
	v := newValidator(t, domain.Page{DocID: "doc1", Number: 1, Text: "Hello world"})

	text := `Good [doc1 | 1 | 0:5]. Broken [doc1 | one | 0:5]. Bad span [doc1 | 1 | 50:60].`
	results, grounding, err := v.Validate(context.Background(), text)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	want := []domain.ValidationStatus{
		domain.StatusValid,
		domain.StatusUnparseable,
		domain.StatusOffsetOutOfRange,
	}
	for i, status := range want {
		if results[i].Status != status {
			t.Errorf("result %d status = %q, want %q", i, results[i].Status, status)
		}
	}
	if grounding.Total != 3 || grounding.Valid != 1 {
		t.Errorf("grounding = %+v, want 1/3", grounding)
	}
	if got := grounding.Percent; got < 33.3 || got > 33.4 {
		t.Errorf("grounding percent = %v", got)
	}
}

func TestValidator_NoCitations(t *testing.T) {
	v := newValidator(t)

	results, grounding, err := v.Validate(context.Background(), "No tags here.")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if results != nil {
		t.Errorf("results = %+v, want nil", results)
	}
	if grounding.Total != 0 || grounding.Percent != 0 {
		t.Errorf("grounding = %+v, want zero", grounding)
	}
}

func TestComputeGrounding(t *testing.T) {
	g := ComputeGrounding([]domain.CitationResult{
		{Status: domain.StatusValid},
		{Status: domain.StatusValid},
		{Status: domain.StatusTextMismatch},
		{Status: domain.StatusUnparseable},
	})
	if g.Total != 4 || g.Valid != 2 || g.Percent != 50 {
		t.Errorf("grounding = %+v, want 2/4 at 50%%", g)
	}
}
