package adapter

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internscout/internal/browser"
	"github.com/amishk599/internscout/internal/model"
)

const unstopBaseURL = "https://unstop.com"

var _ model.SiteAdapter = (*UnstopAdapter)(nil)

// UnstopAdapter scrapes internship listings from Unstop. The listing page
// renders client-side, so it needs a settle pause after navigation.
type UnstopAdapter struct {
	loader     browser.Loader
	baseURL    string
	settle     time.Duration
	maxResults int
	logger     *slog.Logger
}

// NewUnstopAdapter creates an adapter reading at most maxResults listings.
func NewUnstopAdapter(loader browser.Loader, maxResults int, logger *slog.Logger) *UnstopAdapter {
	return &UnstopAdapter{
		loader:     loader,
		baseURL:    unstopBaseURL,
		settle:     3 * time.Second,
		maxResults: maxResults,
		logger:     logger,
	}
}

func (a *UnstopAdapter) Name() string { return "unstop" }

// Scrape searches Unstop internships by search term.
func (a *UnstopAdapter) Scrape(ctx context.Context, query string) ([]model.RawRecord, error) {
	req := browser.PageRequest{
		URL:          a.baseURL + "/internships?searchTerm=" + url.PathEscape(query),
		Settle:       a.settle,
		WaitSelector: "app-competition-listing > div",
		WaitTimeout:  15 * time.Second,
		NavTimeout:   90 * time.Second,
	}
	return scrapeListings(ctx, a.loader, req, listing{
		site:       a.Name(),
		container:  "app-competition-listing > div",
		maxResults: a.maxResults,
		link: func(sel *goquery.Selection) (string, bool) {
			// Card ids look like "i_1234567"; the numeric part is the listing id.
			containerID, _ := sel.Attr("id")
			parts := strings.Split(containerID, "_")
			if len(parts) < 2 || parts[1] == "" {
				return "", false
			}
			return a.baseURL + "/o/i/" + parts[1], true
		},
	}, a.logger)
}
