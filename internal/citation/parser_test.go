package citation

import (
	"testing"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func TestExtract_ShortForm(t *testing.T) {
	text := "The treaty entered into force in 1994 [gatt_1994 | 12 | 340:512]."
	results := Extract(text)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	r := results[0]
	if r.Raw != "[gatt_1994 | 12 | 340:512]" {
		t.Errorf("raw = %q", r.Raw)
	}
	if r.Status == domain.StatusUnparseable {
		t.Fatal("tag reported unparseable")
	}
	want := domain.Citation{DocID: "gatt_1994", Page: 12, CharStart: 340, CharEnd: 512}
	if r.Citation != want {
		t.Errorf("citation = %+v, want %+v", r.Citation, want)
	}
}

func TestExtract_QuotedForm(t *testing.T) {
	text := `See [doc1 | 3 | 10:21 | "hello world"] for details.`
	results := Extract(text)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Citation.Quote != "hello world" {
		t.Errorf("quote = %q", results[0].Citation.Quote)
	}
}

func TestExtract_WhitespaceTolerance(t *testing.T) {
	results := Extract("[  doc1|2|5 : 9  ]")
	if len(results) != 1 || results[0].Status == domain.StatusUnparseable {
		t.Fatalf("results = %+v", results)
	}
	c := results[0].Citation
	if c.DocID != "doc1" || c.Page != 2 || c.CharStart != 5 || c.CharEnd != 9 {
		t.Errorf("citation = %+v", c)
	}
}

func TestExtract_MalformedTagsAreUnparseable(t *testing.T) {
	malformed := []string{
		"[doc1 | twelve | 10:20]", // non-numeric page
		"[doc1 | 12 | 10-20]",     // wrong range separator
		"[doc1 | 12]",             // missing range field
		"[ | 12 | 10:20]",         // empty doc id
		"[doc1 | 12 | 10:20 | unquoted]",
	}
	for _, text := range malformed {
		results := Extract(text)
		if len(results) != 1 {
			t.Errorf("%q: results = %d, want 1", text, len(results))
			continue
		}
		if results[0].Status != domain.StatusUnparseable {
			t.Errorf("%q: status = %q, want unparseable", text, results[0].Status)
		}
	}
}

func TestExtract_IgnoresPlainBrackets(t *testing.T) {
	if results := Extract("As shown in [3] and [see above], nothing is cited."); results != nil {
		t.Errorf("results = %+v, want nil", results)
	}
	if results := Extract("No citations at all."); results != nil {
		t.Errorf("results = %+v, want nil", results)
	}
}

func TestExtract_MultipleTagsInOrder(t *testing.T) {
	text := "First [a | 1 | 0:5] then [b | 2 | 3:9] and broken [c | x | 0:1]."
	results := Extract(text)
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Citation.DocID != "a" || results[1].Citation.DocID != "b" {
		t.Errorf("order wrong: %+v", results)
	}
	if results[2].Status != domain.StatusUnparseable {
		t.Errorf("third tag status = %q, want unparseable", results[2].Status)
	}
}
