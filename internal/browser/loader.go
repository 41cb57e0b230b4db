// Package browser provides page loading for site adapters: a managed
// headless Chrome session driven by Rod, and a plain HTTP loader for sources
// that render server-side.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSelectorTimeout means the awaited selector never appeared.
	ErrSelectorTimeout = errors.New("browser: wait for selector timed out")

	// ErrNoSession means Load was called outside an open session.
	ErrNoSession = errors.New("browser: no open session")
)

// PageRequest describes one page load.
type PageRequest struct {
	URL          string
	WaitSelector string        // element that signals listings have rendered
	WaitTimeout  time.Duration // budget for WaitSelector
	NavTimeout   time.Duration // budget for navigation
	Dismiss      string        // optional overlay to click away (e.g. a popup)
	Settle       time.Duration // extra pause after navigation for client-side rendering
}

// Loader returns the rendered HTML of a page.
type Loader interface {
	Load(ctx context.Context, req PageRequest) (string, error)
}

// Scope is acquired at the start of a scrape and released at its end.
type Scope interface {
	Open(ctx context.Context) error
	Close() error
}

// LoaderScope is a Loader whose lifetime is scoped to one scrape.
type LoaderScope interface {
	Loader
	Scope
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
