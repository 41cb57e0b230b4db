package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/internscout/internal/filter"
	"github.com/amishk599/internscout/internal/model"
)

// KeywordExtractor is the offline model.Extractor used with provider
// "keyword". Title and company are the first two lines of the raw text.
type KeywordExtractor struct {
	logger *slog.Logger
}

// NewKeywordExtractor returns a KeywordExtractor.
func NewKeywordExtractor(logger *slog.Logger) *KeywordExtractor {
	return &KeywordExtractor{logger: logger}
}

// ExtractAndFilter keeps the records whose text contains a preference keyword.
func (k *KeywordExtractor) ExtractAndFilter(_ context.Context, raw []model.RawRecord, prefs model.PreferenceSpec) []model.Opportunity {
	out := []model.Opportunity{}
	if len(raw) == 0 {
		return out
	}

	m := filter.NewKeywordMatcher(prefs.Keywords)
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		kw, ok := m.Match(r.RawText)
		if !ok {
			continue
		}
		seen[r.URL] = struct{}{}

		title, company := filter.HeadLines(r.RawText)
		reason := "Listed under your search."
		if kw != "" {
			reason = fmt.Sprintf("Mentions %q.", kw)
		}
		out = append(out, model.Opportunity{
			ID:             r.URL,
			Title:          title,
			Company:        company,
			ReasonForMatch: reason,
			URL:            r.URL,
		})
	}

	k.logger.Info("keyword extraction complete", "records", len(raw), "matched", len(out))
	return out
}
