package adapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internscout/internal/browser"
	"github.com/amishk599/internscout/internal/model"
)

// blockText returns the visible text of a listing container, one trimmed
// line per text line, blank lines removed.
func blockText(sel *goquery.Selection) string {
	raw := sel.Text()
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// linkFunc extracts the canonical posting URL from a listing container.
type linkFunc func(sel *goquery.Selection) (string, bool)

// listing describes how to read one source's search results page.
type listing struct {
	site       string
	container  string
	maxResults int
	link       linkFunc
}

// scrapeListings loads req and turns up to maxResults containers into raw
// records. A missing selector or failed navigation is logged and yields an
// empty result; only ErrNoSession is returned.
func scrapeListings(ctx context.Context, loader browser.Loader, req browser.PageRequest, l listing, logger *slog.Logger) ([]model.RawRecord, error) {
	logger.Info("scraping site", "site", l.site, "url", req.URL)

	page, err := loader.Load(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, browser.ErrNoSession):
			return nil, err
		case errors.Is(err, browser.ErrSelectorTimeout):
			logger.Info("no listing containers found, skipping", "site", l.site)
		default:
			logger.Warn("page load failed, skipping", "site", l.site, "error", err)
		}
		return []model.RawRecord{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		logger.Warn("parse page failed, skipping", "site", l.site, "error", err)
		return []model.RawRecord{}, nil
	}

	containers := doc.Find(l.container)
	logger.Debug("found listing containers", "site", l.site, "count", containers.Length())

	records := []model.RawRecord{}
	containers.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= l.maxResults {
			return false
		}
		url, ok := l.link(sel)
		if !ok {
			return true
		}
		records = append(records, model.RawRecord{RawText: blockText(sel), URL: url})
		return true
	})

	logger.Info("extracted raw blocks", "site", l.site, "records", len(records))
	return records, nil
}

// joinURL prefixes a site-relative path with base.
func joinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
