package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/internscout/internal/model"
)

// BatchExtractor implements model.Extractor with a single LLM call per batch.
type BatchExtractor struct {
	provider LLMProvider
	tmpl     *template.Template
	timeout  time.Duration
	logger   *slog.Logger
}

// NewBatchExtractor creates an extractor. A zero timeout means the call is
// bounded only by ctx.
func NewBatchExtractor(provider LLMProvider, tmpl *template.Template, timeout time.Duration, logger *slog.Logger) *BatchExtractor {
	return &BatchExtractor{
		provider: provider,
		tmpl:     tmpl,
		timeout:  timeout,
		logger:   logger,
	}
}

// ExtractAndFilter returns the opportunities the service judged relevant.
// Empty input short-circuits without calling the provider; any failure is
// logged and yields an empty result.
func (e *BatchExtractor) ExtractAndFilter(ctx context.Context, raw []model.RawRecord, prefs model.PreferenceSpec) []model.Opportunity {
	if len(raw) == 0 {
		return []model.Opportunity{}
	}

	prompt, err := e.render(raw, prefs)
	if err != nil {
		e.logger.Error("extraction prompt failed", "error", err)
		return []model.Opportunity{}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.logger.Error("extraction service failed", "records", len(raw), "error", err)
		return []model.Opportunity{}
	}

	opps, err := parseMatchedJobs(resp)
	if err != nil {
		e.logger.Error("extraction response unusable", "error", err)
		return []model.Opportunity{}
	}

	out := reconcile(opps, raw, e.logger)
	if dropped := len(opps) - len(out); dropped > 0 {
		e.logger.Warn("discarded extracted jobs with unknown or duplicate url", "dropped", dropped)
	}
	e.logger.Info("extraction complete", "records", len(raw), "matched", len(out), "elapsed", time.Since(start).Round(time.Millisecond))
	return out
}

func (e *BatchExtractor) render(raw []model.RawRecord, prefs model.PreferenceSpec) (string, error) {
	doc, err := json.MarshalIndent(prefs.Document(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal preferences: %w", err)
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, struct {
		Preferences string
		Records     []model.RawRecord
	}{
		Preferences: string(doc),
		Records:     raw,
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// matchedJobs is the JSON shape returned by the LLM (matches matchedJobsSchema).
type matchedJobs struct {
	MatchedJobs []model.Opportunity `json:"matched_jobs"`
}

func parseMatchedJobs(raw string) ([]model.Opportunity, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var mj matchedJobs
	if err := json.Unmarshal([]byte(raw), &mj); err != nil {
		return nil, fmt.Errorf("unmarshal matched jobs JSON: %w", err)
	}
	return mj.MatchedJobs, nil
}

// reconcile keeps only opportunities whose URL came from the input batch,
// once each, in response order, with ID forced to the URL.
func reconcile(opps []model.Opportunity, raw []model.RawRecord, logger *slog.Logger) []model.Opportunity {
	known := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		known[r.URL] = struct{}{}
	}

	out := []model.Opportunity{}
	seen := make(map[string]struct{}, len(opps))
	for _, o := range opps {
		o.URL = strings.TrimSpace(o.URL)
		if o.URL == "" {
			logger.Debug("dropped extracted job without url", "title", o.Title)
			continue
		}
		if _, ok := known[o.URL]; !ok {
			logger.Debug("dropped extracted job with unknown url", "url", o.URL, "title", o.Title)
			continue
		}
		if _, dup := seen[o.URL]; dup {
			logger.Debug("dropped duplicate extracted job", "url", o.URL)
			continue
		}
		seen[o.URL] = struct{}{}
		o.ID = o.URL
		out = append(out, o)
	}
	return out
}
