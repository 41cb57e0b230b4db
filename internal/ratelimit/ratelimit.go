package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/internscout/internal/model"
)

// HostLimiter enforces a minimum delay between navigations to the same host.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: hostname
	minDelay time.Duration
}

// NewHostLimiter creates a limiter allowing one navigation per minDelay per
// host. A zero minDelay never blocks.
func NewHostLimiter(minDelay time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
	}
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if lim, ok := h.limiters[host]; ok {
		return lim
	}
	limit := rate.Inf
	if h.minDelay > 0 {
		limit = rate.Every(h.minDelay)
	}
	lim := rate.NewLimiter(limit, 1)
	h.limiters[host] = lim
	return lim
}

// Wait blocks until host may be hit again.
// Returns an error if the context is cancelled while waiting.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if err := h.limiterFor(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// RateLimitedAdapter is a decorator that enforces host-level rate limiting
// before delegating to the wrapped SiteAdapter.
type RateLimitedAdapter struct {
	inner   model.SiteAdapter
	limiter *HostLimiter
	host    string
}

var _ model.SiteAdapter = (*RateLimitedAdapter)(nil)

// Wrap returns inner guarded by limiter. All adapters targeting the same host
// should share the same limiter instance.
func Wrap(inner model.SiteAdapter, limiter *HostLimiter, host string) *RateLimitedAdapter {
	return &RateLimitedAdapter{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

func (a *RateLimitedAdapter) Name() string { return a.inner.Name() }

// Scrape waits for the limiter, then delegates to the wrapped adapter.
func (a *RateLimitedAdapter) Scrape(ctx context.Context, query string) ([]model.RawRecord, error) {
	if err := a.limiter.Wait(ctx, a.host); err != nil {
		return nil, err
	}
	return a.inner.Scrape(ctx, query)
}
