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

const internshalaBaseURL = "https://internshala.com"

var _ model.SiteAdapter = (*InternshalaAdapter)(nil)

// InternshalaAdapter scrapes internship search results from Internshala.
type InternshalaAdapter struct {
	loader     browser.Loader
	baseURL    string
	maxResults int
	logger     *slog.Logger
}

// NewInternshalaAdapter creates an adapter reading at most maxResults listings.
func NewInternshalaAdapter(loader browser.Loader, maxResults int, logger *slog.Logger) *InternshalaAdapter {
	return &InternshalaAdapter{
		loader:     loader,
		baseURL:    internshalaBaseURL,
		maxResults: maxResults,
		logger:     logger,
	}
}

func (a *InternshalaAdapter) Name() string { return "internshala" }

// Scrape searches Internshala by keyword path segment.
func (a *InternshalaAdapter) Scrape(ctx context.Context, query string) ([]model.RawRecord, error) {
	req := browser.PageRequest{
		URL:          a.baseURL + "/internships/keywords-" + strings.ReplaceAll(query, " ", "%20"),
		Dismiss:      "#no_thanks",
		WaitSelector: "div.individual_internship",
		WaitTimeout:  15 * time.Second,
		NavTimeout:   90 * time.Second,
	}
	return scrapeListings(ctx, a.loader, req, listing{
		site:       a.Name(),
		container:  "div.individual_internship",
		maxResults: a.maxResults,
		link: func(sel *goquery.Selection) (string, bool) {
			href, ok := sel.Find("h3.job-internship-name a").First().Attr("href")
			if !ok || href == "" {
				return "", false
			}
			return joinURL(a.baseURL, href), true
		},
	}, a.logger)
}
