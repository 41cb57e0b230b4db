package filter

import (
	"strings"

	"github.com/amishk599/internscout/internal/model"
)

// KeywordMatcher matches raw listing text against preference keywords.
// Matching is case-insensitive substring. An empty keyword list matches
// everything.
type KeywordMatcher struct {
	keywords []string
}

// NewKeywordMatcher returns a matcher for the given keywords. Blank keywords
// are ignored.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			kws = append(kws, kw)
		}
	}
	return &KeywordMatcher{keywords: kws}
}

// Match returns the first keyword found in text and whether any matched.
func (m *KeywordMatcher) Match(text string) (string, bool) {
	if len(m.keywords) == 0 {
		return "", true
	}
	lower := strings.ToLower(text)
	for _, kw := range m.keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// Filter returns the records whose raw text matches, in input order.
func (m *KeywordMatcher) Filter(records []model.RawRecord) []model.RawRecord {
	out := []model.RawRecord{}
	for _, r := range records {
		if _, ok := m.Match(r.RawText); ok {
			out = append(out, r)
		}
	}
	return out
}

// HeadLines returns the first two non-blank lines of a listing's text,
// which the boards render as title then company.
func HeadLines(text string) (title, company string) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
			if len(lines) == 2 {
				break
			}
		}
	}
	switch len(lines) {
	case 0:
		return "", ""
	case 1:
		return lines[0], ""
	default:
		return lines[0], lines[1]
	}
}
