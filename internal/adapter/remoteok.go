package adapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internscout/internal/browser"
	"github.com/amishk599/internscout/internal/model"
)

const remoteOKBaseURL = "https://remoteok.com"

var _ model.SiteAdapter = (*RemoteOKAdapter)(nil)

// RemoteOKAdapter scrapes job rows from RemoteOK's tag pages.
type RemoteOKAdapter struct {
	loader     browser.Loader
	baseURL    string
	maxResults int
	logger     *slog.Logger
}

// NewRemoteOKAdapter creates an adapter reading at most maxResults rows.
func NewRemoteOKAdapter(loader browser.Loader, maxResults int, logger *slog.Logger) *RemoteOKAdapter {
	return &RemoteOKAdapter{
		loader:     loader,
		baseURL:    remoteOKBaseURL,
		maxResults: maxResults,
		logger:     logger,
	}
}

func (a *RemoteOKAdapter) Name() string { return "remoteok" }

// Scrape loads the remote-<query>-jobs tag page. RemoteOK tags are single
// slugs, so spaces become dashes.
func (a *RemoteOKAdapter) Scrape(ctx context.Context, query string) ([]model.RawRecord, error) {
	slug := strings.ToLower(strings.Join(strings.Fields(query), "-"))
	req := browser.PageRequest{
		URL:          a.baseURL + "/remote-" + slug + "-jobs",
		WaitSelector: "tr.job:not(.placeholder)",
		WaitTimeout:  20 * time.Second,
		NavTimeout:   90 * time.Second,
	}
	return scrapeListings(ctx, a.loader, req, listing{
		site:       a.Name(),
		container:  "tr.job:not(.placeholder)",
		maxResults: a.maxResults,
		link: func(sel *goquery.Selection) (string, bool) {
			suffix, ok := sel.Attr("data-url")
			if !ok || suffix == "" {
				return "", false
			}
			return joinURL(a.baseURL, suffix), true
		},
	}, a.logger)
}
