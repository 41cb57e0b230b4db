package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

var _ LoaderScope = (*Session)(nil)

// SessionConfig configures the managed Chrome session.
type SessionConfig struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string
	Headless  bool
	UserAgent string
	Logger    *slog.Logger
}

// Session owns one Chrome process (or remote connection) for the duration
// of a scrape. Pages are opened per Load and closed before it returns.
type Session struct {
	cfg     SessionConfig
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewSession creates a Session. Call Open before Load.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{cfg: cfg}
}

// Open launches Chrome (or connects to a remote instance).
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return nil
	}

	wsURL := s.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().Context(ctx).Headless(s.cfg.Headless)
		// Anti-detection flags.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		s.cfg.Logger.Debug("browser: launched local chrome", "url", wsURL)
	} else {
		s.cfg.Logger.Debug("browser: connecting to remote", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		s.cleanupLocked()
		return fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b
	return nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanupLocked()
}

func (s *Session) cleanupLocked() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
	return err
}

// Load opens a stealth tab, navigates to req.URL, waits for the listing
// selector and returns the page HTML.
func (s *Session) Load(ctx context.Context, req PageRequest) (string, error) {
	s.mu.Lock()
	b := s.browser
	s.mu.Unlock()
	if b == nil {
		return "", ErrNoSession
	}

	page, err := stealth.Page(b)
	if err != nil {
		return "", fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()

	if s.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.cfg.UserAgent}); err != nil {
			s.cfg.Logger.Warn("browser: set user agent failed", "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, orDefault(req.NavTimeout, 90*time.Second))
	defer cancel()
	if err := page.Context(navCtx).Navigate(req.URL); err != nil {
		return "", fmt.Errorf("browser: navigate %s: %w", req.URL, err)
	}
	if err := page.Context(navCtx).WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		s.cfg.Logger.Debug("browser: dom not stable before deadline", "url", req.URL, "error", err)
	}

	if req.Dismiss != "" {
		s.dismiss(ctx, page, req.Dismiss)
	}

	if err := sleepCtx(ctx, req.Settle); err != nil {
		return "", err
	}

	if req.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(ctx, orDefault(req.WaitTimeout, 15*time.Second))
		_, err := page.Context(waitCtx).Element(req.WaitSelector)
		cancelWait()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return "", fmt.Errorf("%w: %s on %s", ErrSelectorTimeout, req.WaitSelector, req.URL)
			}
			return "", fmt.Errorf("browser: wait for %s: %w", req.WaitSelector, err)
		}
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("browser: read html %s: %w", req.URL, err)
	}
	return html, nil
}

// dismiss clicks a popup's close control if it shows up within 2s.
func (s *Session) dismiss(ctx context.Context, page *rod.Page, selector string) {
	dctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	el, err := page.Context(dctx).Element(selector)
	if err != nil {
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.cfg.Logger.Debug("browser: dismiss click failed", "selector", selector, "error", err)
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
