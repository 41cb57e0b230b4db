package model

import (
	"context"
	"time"
)

// RawRecord is one unstructured listing block captured by a site adapter.
// It has no identity beyond its URL and may repeat across adapters.
type RawRecord struct {
	RawText string `json:"raw_text"`
	URL     string `json:"url"`
}

// Opportunity is a structured posting that matched the user's preferences.
// ID is the canonical posting URL, stable across runs.
type Opportunity struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	ReasonForMatch string `json:"reason_for_match"`
	URL            string `json:"url"`
}

// PreferenceSpec is the user's search configuration, loaded once per run.
type PreferenceSpec struct {
	Keywords []string       // ordered, most important first
	Criteria map[string]any // every other top-level key of the preference file
}

// Document returns the full preference document (keywords plus criteria)
// as it should be presented to the extraction service.
func (p PreferenceSpec) Document() map[string]any {
	doc := make(map[string]any, len(p.Criteria)+1)
	for k, v := range p.Criteria {
		doc[k] = v
	}
	doc["keywords"] = p.Keywords
	return doc
}

// SiteTask is one planned adapter invocation.
type SiteTask struct {
	Name    string
	Adapter SiteAdapter
	Query   string
}

// SiteAdapter turns a search query into raw listing blocks for one source.
// Zero results is an empty slice, not an error. Navigation and timeout
// failures are absorbed by the adapter; only catastrophic setup failure
// is returned.
type SiteAdapter interface {
	Name() string
	Scrape(ctx context.Context, query string) ([]RawRecord, error)
}

// Extractor infers structured fields from raw records and keeps only the
// ones matching prefs. Failures degrade to an empty result.
type Extractor interface {
	ExtractAndFilter(ctx context.Context, raw []RawRecord, prefs PreferenceSpec) []Opportunity
}

// Ledger is the persisted, append-only set of already-notified opportunity IDs.
type Ledger interface {
	Load() ([]string, error)
	Append(ids []string) error
}

// PreferenceStore loads the user's search configuration.
type PreferenceStore interface {
	Load() (PreferenceSpec, error)
}

// SnapshotWriter persists the verbatim raw records of a run for audit.
type SnapshotWriter interface {
	Write(records []RawRecord) error
}

// Messenger pushes a single opportunity through an outbound channel.
type Messenger interface {
	Send(ctx context.Context, opp Opportunity) error
}

// LogEntry is one stage-completion record of a run.
type LogEntry struct {
	Stage   string
	Message string
	Count   int
	At      time.Time
}
