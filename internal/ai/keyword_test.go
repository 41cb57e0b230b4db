package ai

import (
	"context"
	"testing"

	"github.com/amishk599/internscout/internal/model"
)

func TestKeywordExtract_MatchesAndSplitsHeadLines(t *testing.T) {
	raw := []model.RawRecord{
		{RawText: "\nPython Developer Intern\nZeta Labs\nBangalore", URL: "https://unstop.com/o/i/1"},
		{RawText: "Sales Intern\nBeta", URL: "https://unstop.com/o/i/2"},
		{RawText: "Python Developer Intern\nZeta Labs", URL: "https://unstop.com/o/i/1"},
		{RawText: "Python without a link", URL: ""},
	}
	got := NewKeywordExtractor(discardLogger()).ExtractAndFilter(context.Background(), raw, model.PreferenceSpec{Keywords: []string{"python"}})

	if len(got) != 1 {
		t.Fatalf("got %d opportunities, want 1: %+v", len(got), got)
	}
	o := got[0]
	if o.ID != o.URL || o.URL != "https://unstop.com/o/i/1" {
		t.Errorf("id/url = %q/%q", o.ID, o.URL)
	}
	if o.Title != "Python Developer Intern" || o.Company != "Zeta Labs" {
		t.Errorf("title/company = %q/%q", o.Title, o.Company)
	}
	if o.ReasonForMatch != `Mentions "python".` {
		t.Errorf("reason = %q", o.ReasonForMatch)
	}
}

func TestKeywordExtract_EmptyInput(t *testing.T) {
	got := NewKeywordExtractor(discardLogger()).ExtractAndFilter(context.Background(), nil, model.PreferenceSpec{})
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil", got)
	}
}
