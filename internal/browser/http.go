package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internscout/internal/model"
)

var _ LoaderScope = (*HTTPLoader)(nil)

// HTTPLoader fetches pages without a browser. WaitSelector is checked
// against the returned document; Dismiss and Settle do not apply.
type HTTPLoader struct {
	client    *http.Client
	userAgent string
}

// NewHTTPLoader returns a loader using client.
func NewHTTPLoader(client *http.Client, userAgent string) *HTTPLoader {
	return &HTTPLoader{client: client, userAgent: userAgent}
}

func (h *HTTPLoader) Open(context.Context) error { return nil }
func (h *HTTPLoader) Close() error               { return nil }

// Load GETs req.URL and returns the body.
func (h *HTTPLoader) Load(ctx context.Context, req PageRequest) (string, error) {
	if req.NavTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.NavTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return "", fmt.Errorf("browser: build request %s: %w", req.URL, err)
	}
	if h.userAgent != "" {
		httpReq.Header.Set("User-Agent", h.userAgent)
	}
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("browser: get %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("browser: get %s: %w", req.URL, &model.HTTPError{StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("browser: read %s: %w", req.URL, err)
	}
	html := string(body)

	if req.WaitSelector != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return "", fmt.Errorf("browser: parse %s: %w", req.URL, err)
		}
		if doc.Find(req.WaitSelector).Length() == 0 {
			return "", fmt.Errorf("%w: %s on %s", ErrSelectorTimeout, req.WaitSelector, req.URL)
		}
	}
	return html, nil
}
