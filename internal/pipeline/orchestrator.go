package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/scrape"
)

// Scraper runs the planned site tasks.
type Scraper interface {
	Run(ctx context.Context, tasks []model.SiteTask) scrape.Result
}

// Dispatcher delivers new opportunities and commits them to the ledger.
type Dispatcher interface {
	Notify(ctx context.Context, opps []model.Opportunity) ([]string, error)
}

// Orchestrator runs the pipeline once per Run call.
type Orchestrator struct {
	prefs     model.PreferenceStore
	ledger    model.Ledger
	sites     []Site
	scraper   Scraper
	extractor model.Extractor
	notifier  Dispatcher
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an orchestrator wired with all its dependencies.
func New(
	prefs model.PreferenceStore,
	ledger model.Ledger,
	sites []Site,
	scraper Scraper,
	extractor model.Extractor,
	notifier Dispatcher,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		prefs:     prefs,
		ledger:    ledger,
		sites:     sites,
		scraper:   scraper,
		extractor: extractor,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

type handler func(ctx context.Context, logger *slog.Logger, s State) (Delta, error)

// Run executes one full pass and returns the final state. The error is
// non-nil only when planning fails or the ledger could not be committed;
// the state and its log are returned either way.
func (o *Orchestrator) Run(ctx context.Context) (State, error) {
	state := State{RunID: uuid.NewString(), Stage: StagePlanning}
	logger := o.logger.With("run_id", state.RunID)
	logger.Info("run started", "sites", len(o.sites))
	start := time.Now()

	handlers := map[Stage]handler{
		StagePlanning:      o.plan,
		StageScraping:      o.scrape,
		StageExtracting:    o.extract,
		StageDeduplicating: o.dedupe,
		StageNotifying:     o.notify,
	}

	for stage := StagePlanning; stage != StageDone; stage = next(stage, state) {
		state.Stage = stage
		delta, err := handlers[stage](ctx, logger, state)
		state.merge(delta)
		if err != nil {
			if stage == StageNotifying {
				// Deliveries were attempted; only the ledger commit failed.
				state.Stage = StageDone
				logger.Error("ledger commit failed", "error", err)
			} else {
				logger.Error("run aborted", "stage", stage, "error", err)
			}
			return state, fmt.Errorf("%s: %w", stage, err)
		}
	}
	state.Stage = StageDone

	logger.Info("run complete",
		"raw", len(state.Raw),
		"matched", len(state.Relevant),
		"new", len(state.Fresh),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return state, nil
}

func (o *Orchestrator) entry(stage Stage, count int, format string, args ...any) model.LogEntry {
	return model.LogEntry{Stage: string(stage), Message: fmt.Sprintf(format, args...), Count: count, At: o.now()}
}

func (o *Orchestrator) plan(_ context.Context, logger *slog.Logger, _ State) (Delta, error) {
	prefs, err := o.prefs.Load()
	if err != nil {
		if !errors.Is(err, model.ErrConfiguration) {
			err = fmt.Errorf("%w: %w", model.ErrConfiguration, err)
		}
		return Delta{}, err
	}

	sent, err := o.ledger.Load()
	if err != nil {
		return Delta{}, fmt.Errorf("%w: load ledger: %w", model.ErrConfiguration, err)
	}
	if sent == nil {
		sent = []string{}
	}

	tasks := PlanTasks(o.sites, prefs.Keywords)
	for _, t := range tasks {
		logger.Debug("planned site", "site", t.Name, "query", t.Query)
	}
	logger.Info("planning complete", "keywords", len(prefs.Keywords), "sites", len(tasks), "already_sent", len(sent))

	return Delta{
		Prefs:   &prefs,
		SentIDs: &sent,
		Tasks:   &tasks,
		Log:     []model.LogEntry{o.entry(StagePlanning, len(tasks), "Starting run across %d sites.", len(tasks))},
	}, nil
}

func (o *Orchestrator) scrape(ctx context.Context, _ *slog.Logger, s State) (Delta, error) {
	res := o.scraper.Run(ctx, s.Tasks)
	return Delta{
		Raw:   &res.Records,
		Sites: &res.Sites,
		Log:   []model.LogEntry{o.entry(StageScraping, len(res.Records), "Scraped %d raw data blocks.", len(res.Records))},
	}, nil
}

func (o *Orchestrator) extract(ctx context.Context, _ *slog.Logger, s State) (Delta, error) {
	relevant := o.extractor.ExtractAndFilter(ctx, s.Raw, s.Prefs)
	if relevant == nil {
		relevant = []model.Opportunity{}
	}
	return Delta{
		Relevant: &relevant,
		Log:      []model.LogEntry{o.entry(StageExtracting, len(relevant), "Filtered %d jobs.", len(relevant))},
	}, nil
}

func (o *Orchestrator) dedupe(_ context.Context, logger *slog.Logger, s State) (Delta, error) {
	fresh := Dedupe(s.Relevant, NewIDSet(s.SentIDs))
	logger.Info("deduplicated", "matched", len(s.Relevant), "new", len(fresh))
	return Delta{
		Fresh: &fresh,
		Log:   []model.LogEntry{o.entry(StageDeduplicating, len(fresh), "Found %d new jobs.", len(fresh))},
	}, nil
}

func (o *Orchestrator) notify(ctx context.Context, _ *slog.Logger, s State) (Delta, error) {
	attempted, err := o.notifier.Notify(ctx, s.Fresh)
	d := Delta{
		Attempted: &attempted,
		Log:       []model.LogEntry{o.entry(StageNotifying, len(attempted), "Sent alerts for %d jobs.", len(attempted))},
	}
	if err != nil {
		return d, err
	}
	sent := append(append([]string{}, s.SentIDs...), attempted...)
	d.SentIDs = &sent
	return d, nil
}
