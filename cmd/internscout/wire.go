package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/internscout/internal/adapter"
	"github.com/amishk599/internscout/internal/ai"
	"github.com/amishk599/internscout/internal/browser"
	"github.com/amishk599/internscout/internal/config"
	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/notifier"
	"github.com/amishk599/internscout/internal/pipeline"
	"github.com/amishk599/internscout/internal/prefs"
	"github.com/amishk599/internscout/internal/ratelimit"
	"github.com/amishk599/internscout/internal/retry"
	"github.com/amishk599/internscout/internal/scrape"
	"github.com/amishk599/internscout/internal/secrets"
	"github.com/amishk599/internscout/internal/store"
)

// retryBaseDelay is the first backoff step of the opt-in provider retry.
const retryBaseDelay = 2 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func setupLoader(cfg *config.Config, logger *slog.Logger) browser.LoaderScope {
	if !cfg.Browser.Enabled {
		logger.Debug("browser disabled, using plain HTTP page loads")
		return browser.NewHTTPLoader(newHTTPClient(), cfg.Browser.UserAgent)
	}
	return browser.NewSession(browser.SessionConfig{
		RemoteURL: cfg.Browser.RemoteURL,
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
		Logger:    logger,
	})
}

// buildSites creates one rate-limited adapter per enabled site. Sites on the
// same host share a limiter.
func buildSites(cfg *config.Config, loader browser.Loader, logger *slog.Logger) ([]pipeline.Site, error) {
	limiter := ratelimit.NewHostLimiter(cfg.Scrape.MinDelay)
	deps := adapter.Deps{Loader: loader, MaxResults: cfg.Scrape.MaxResults, Logger: logger}

	var sites []pipeline.Site
	for _, s := range cfg.EnabledSites() {
		a, err := adapter.New(s.Adapter, deps)
		if err != nil {
			return nil, fmt.Errorf("%w: site %s: %w", model.ErrConfiguration, s.Name, err)
		}
		sites = append(sites, pipeline.Site{
			Name:    s.Name,
			Adapter: ratelimit.Wrap(a, limiter, adapter.Host(s.Adapter)),
			Query:   s.Query,
		})
		logger.Debug("registered site", "site", s.Name, "adapter", s.Adapter, "query", s.Query)
	}
	return sites, nil
}

func setupExtractor(cfg *config.Config, logger *slog.Logger) model.Extractor {
	var p ai.LLMProvider
	switch cfg.AI.Provider {
	case config.ProviderKeyword:
		logger.Info("using offline keyword extractor")
		return ai.NewKeywordExtractor(logger)
	case config.ProviderOpenAI:
		p = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, &http.Client{})
	default:
		p = ai.NewGeminiProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, &http.Client{})
	}
	if cfg.AI.MaxRetries > 0 {
		p = retry.NewProvider(p, cfg.AI.MaxRetries, retryBaseDelay, logger)
	}
	logger.Info("using llm extractor", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	return ai.NewBatchExtractor(p, ai.ExtractFilterTemplate, cfg.AI.Timeout, logger)
}

func setupMessenger(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Messenger {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack messenger")
		return notifier.NewSlackMessenger(cfg.Notification.WebhookURL, httpClient, logger)
	case "log":
		return notifier.NewLogMessenger(logger)
	default:
		tg := cfg.Notification.Telegram
		account := telegramAccount(cfg)
		token, err := secrets.Resolve(tg.BotToken, account)
		if err != nil {
			logger.Warn("telegram bot token unavailable", "account", account, "error", err)
		}
		m := notifier.NewTelegramMessenger(notifier.DefaultTelegramBaseURL, token, tg.ChatID, httpClient, logger)
		if !m.Configured() {
			logger.Warn("telegram credentials missing: alerts will not be delivered but will still be marked sent")
		}
		return m
	}
}

// telegramAccount is the keychain account holding the bot token, derived
// from the chat id when not configured.
func telegramAccount(cfg *config.Config) string {
	tg := cfg.Notification.Telegram
	if tg.KeyringAccount != "" {
		return tg.KeyringAccount
	}
	if tg.ChatID == "" {
		return ""
	}
	return secrets.TelegramAccount(tg.ChatID)
}

// openLedger returns the configured ledger and a function that releases it.
func openLedger(cfg *config.Config) (model.Ledger, func() error, error) {
	switch cfg.Ledger.Type {
	case config.LedgerSQLite:
		l, err := store.NewSQLiteLedger(cfg.Ledger.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
		}
		return l, l.Close, nil
	default:
		return store.NewFileLedger(cfg.Ledger.Path), func() error { return nil }, nil
	}
}

func buildOrchestrator(cfg *config.Config, ledger model.Ledger, messenger model.Messenger, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	loader := setupLoader(cfg, logger)
	sites, err := buildSites(cfg, loader, logger)
	if err != nil {
		return nil, err
	}

	coordinator := scrape.NewCoordinator(
		loader,
		store.NewSnapshotFile(cfg.SnapshotPath),
		scrape.Options{
			Concurrency: cfg.Scrape.Concurrency,
			SiteTimeout: cfg.Scrape.SiteTimeout,
			Pause:       cfg.Scrape.Pause,
		},
		logger,
	)

	return pipeline.New(
		prefs.NewFileStore(cfg.PreferencesPath),
		ledger,
		sites,
		coordinator,
		setupExtractor(cfg, logger),
		notifier.New(messenger, ledger, cfg.Notification.Pause, logger),
		logger,
	), nil
}
