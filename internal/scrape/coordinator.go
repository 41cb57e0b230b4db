// Package scrape runs every planned site adapter and aggregates their output.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/internscout/internal/browser"
	"github.com/amishk599/internscout/internal/model"
)

// Options tune how adapters are driven.
type Options struct {
	Concurrency int           // 1 = sequential
	SiteTimeout time.Duration // wall-clock budget per adapter call; 0 = none
	Pause       time.Duration // gap between sequential adapter calls
}

// SiteResult is one adapter's contribution to a scrape.
type SiteResult struct {
	Site    string
	Records int
	Err     error
}

// Result is the aggregated output of one scrape.
type Result struct {
	Records []model.RawRecord
	Sites   []SiteResult
}

// Coordinator invokes every task's adapter, isolating failures per site.
type Coordinator struct {
	scope     browser.Scope
	snapshots model.SnapshotWriter
	opts      Options
	logger    *slog.Logger
}

// NewCoordinator creates a coordinator. scope may be nil when adapters need
// no managed session.
func NewCoordinator(scope browser.Scope, snapshots model.SnapshotWriter, opts Options, logger *slog.Logger) *Coordinator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Coordinator{
		scope:     scope,
		snapshots: snapshots,
		opts:      opts,
		logger:    logger,
	}
}

// Run scrapes every task and returns the surviving records in task order.
// It never fails: a site that errors, panics or overruns its budget
// contributes nothing. The snapshot is written even when empty.
func (c *Coordinator) Run(ctx context.Context, tasks []model.SiteTask) Result {
	results := make([][]model.RawRecord, len(tasks))
	sites := make([]SiteResult, len(tasks))

	if err := c.open(ctx); err != nil {
		c.logger.Error("automation session failed to start, no site will contribute", "error", err)
		for i, t := range tasks {
			sites[i] = SiteResult{Site: t.Name, Err: err}
		}
	} else {
		defer c.close()
		c.runAll(ctx, tasks, results, sites)
	}

	records := []model.RawRecord{}
	for _, r := range results {
		records = append(records, r...)
	}
	c.logger.Info("scrape complete", "sites", len(tasks), "records", len(records))

	if c.snapshots != nil {
		if err := c.snapshots.Write(records); err != nil {
			c.logger.Error("saving raw snapshot failed", "error", err)
		} else {
			c.logger.Info("saved raw snapshot", "records", len(records))
		}
	}

	return Result{Records: records, Sites: sites}
}

func (c *Coordinator) runAll(ctx context.Context, tasks []model.SiteTask, results [][]model.RawRecord, sites []SiteResult) {
	if c.opts.Concurrency == 1 {
		for i, t := range tasks {
			if i > 0 && c.opts.Pause > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(c.opts.Pause):
				}
			}
			results[i], sites[i] = c.runOne(ctx, t)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			results[i], sites[i] = c.runOne(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
}

// runOne invokes a single adapter under the site budget and converts any
// failure, including a panic, into an empty contribution.
func (c *Coordinator) runOne(ctx context.Context, t model.SiteTask) (records []model.RawRecord, res SiteResult) {
	res.Site = t.Name
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			records = nil
			res.Records = 0
			res.Err = fmt.Errorf("adapter panic: %v", r)
			c.logger.Error("site scrape failed", "site", t.Name, "error", res.Err)
		}
	}()

	if c.opts.SiteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.SiteTimeout)
		defer cancel()
	}

	out, err := t.Adapter.Scrape(ctx, t.Query)
	if err != nil {
		res.Err = err
		c.logger.Error("site scrape failed", "site", t.Name, "query", t.Query, "error", err)
		return nil, res
	}

	res.Records = len(out)
	c.logger.Info("site scraped", "site", t.Name, "query", t.Query, "records", len(out), "elapsed", time.Since(start).Round(time.Millisecond))
	return out, res
}

func (c *Coordinator) open(ctx context.Context) error {
	if c.scope == nil {
		return nil
	}
	return c.scope.Open(ctx)
}

func (c *Coordinator) close() {
	if c.scope == nil {
		return
	}
	if err := c.scope.Close(); err != nil {
		c.logger.Warn("closing automation session", "error", err)
	}
}
