package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/internscout/internal/model"
)

// Config is the root configuration for an internscout run.
type Config struct {
	PreferencesPath string
	SnapshotPath    string
	Ledger          LedgerConfig
	Browser         BrowserConfig
	Scrape          ScrapeConfig
	Sites           []SiteConfig
	AI              AIConfig
	Notification    NotificationConfig
}

// LedgerConfig selects where already-notified IDs are persisted.
type LedgerConfig struct {
	Type string `yaml:"type"` // "file" or "sqlite"
	Path string `yaml:"path"`
}

// BrowserConfig controls the managed automation session used by adapters.
type BrowserConfig struct {
	Enabled   bool   // false = plain HTTP page loads
	RemoteURL string // websocket URL of an external Chrome; empty launches one
	Headless  bool
	UserAgent string
}

// ScrapeConfig controls the scrape coordinator.
type ScrapeConfig struct {
	Concurrency int           // 1 = sequential
	SiteTimeout time.Duration // wall-clock budget per adapter call
	Pause       time.Duration // gap between sequential adapter calls
	MaxResults  int           // cap on containers read per site
	MinDelay    time.Duration // minimum gap between navigations to the same host
}

// SiteConfig describes one listing source to scan.
type SiteConfig struct {
	Name    string `yaml:"name"`
	Adapter string `yaml:"adapter"` // registry kind, e.g. "internshala"
	Query   string `yaml:"query"`   // "long" or "simple"
	Enabled bool   `yaml:"enabled"`
}

// AIConfig controls the extraction and filter service.
type AIConfig struct {
	Provider   string // "gemini", "openai" or "keyword"
	BaseURL    string
	Model      string
	APIKey     string // expanded from env var by Load
	Timeout    time.Duration
	MaxRetries int // provider-internal retries, 0 disables
}

// UsesLLM reports whether the configured provider calls a remote model.
func (a AIConfig) UsesLLM() bool {
	return a.Provider == ProviderGemini || a.Provider == ProviderOpenAI
}

// NotificationConfig controls which messenger is used and its settings.
type NotificationConfig struct {
	Type       string
	Pause      time.Duration
	Telegram   TelegramConfig
	WebhookURL string // required if type is "slack"
}

// TelegramConfig holds the two channel credentials. Either may be empty;
// the messenger then skips delivery.
type TelegramConfig struct {
	ChatID         string `yaml:"chat_id"`
	BotToken       string `yaml:"bot_token"`
	KeyringAccount string `yaml:"keyring_account"` // keychain fallback for bot_token
}

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderKeyword = "keyword"

	QueryLong   = "long"
	QuerySimple = "simple"

	LedgerFile   = "file"
	LedgerSQLite = "sqlite"
)

var defaultBaseURLs = map[string]string{
	ProviderGemini: "https://generativelanguage.googleapis.com/v1beta",
	ProviderOpenAI: "https://api.openai.com/v1",
}

// defaultQueries mirrors how each source responds best: full phrase
// searches on internship boards, single-word slugs on RemoteOK.
var defaultQueries = map[string]string{
	"internshala": QueryLong,
	"unstop":      QueryLong,
	"remoteok":    QuerySimple,
}

// DefaultQueryFor returns the query style used when a site leaves it unset.
func DefaultQueryFor(adapter string) string {
	if q, ok := defaultQueries[adapter]; ok {
		return q
	}
	return QueryLong
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Preferences  string                `yaml:"preferences"`
	SnapshotPath string                `yaml:"snapshot_path"`
	Ledger       LedgerConfig          `yaml:"ledger"`
	Browser      rawBrowserConfig      `yaml:"browser"`
	Scrape       rawScrapeConfig       `yaml:"scrape"`
	Sites        []SiteConfig          `yaml:"sites"`
	AI           rawAIConfig           `yaml:"ai"`
	Notification rawNotificationConfig `yaml:"notification"`
}

type rawBrowserConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	RemoteURL string `yaml:"remote_url"`
	Headless  *bool  `yaml:"headless"`
	UserAgent string `yaml:"user_agent"`
}

type rawScrapeConfig struct {
	Concurrency int    `yaml:"concurrency"`
	SiteTimeout string `yaml:"site_timeout"`
	Pause       string `yaml:"pause"`
	MaxResults  int    `yaml:"max_results"`
	MinDelay    string `yaml:"min_delay"`
}

type rawAIConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

type rawNotificationConfig struct {
	Type       string         `yaml:"type"`
	Pause      string         `yaml:"pause"`
	Telegram   TelegramConfig `yaml:"telegram"`
	WebhookURL string         `yaml:"webhook_url"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Every returned error wraps model.ErrConfiguration.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	siteTimeout, err := parseDuration("scrape.site_timeout", raw.Scrape.SiteTimeout, 3*time.Minute)
	if err != nil {
		return nil, err
	}
	pause, err := parseDuration("scrape.pause", raw.Scrape.Pause, time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("scrape.min_delay", raw.Scrape.MinDelay, time.Second)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, 60*time.Second)
	if err != nil {
		return nil, err
	}
	notifyPause, err := parseDuration("notification.pause", raw.Notification.Pause, 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	concurrency := raw.Scrape.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	maxResults := raw.Scrape.MaxResults
	if maxResults <= 0 {
		maxResults = 25
	}

	provider := strings.ToLower(raw.AI.Provider)
	if provider == "" {
		provider = ProviderGemini
	}
	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultBaseURLs[provider]
	}
	aiModel := raw.AI.Model
	if aiModel == "" && provider == ProviderGemini {
		aiModel = "gemini-1.5-flash"
	}

	ledger := raw.Ledger
	if ledger.Type == "" {
		ledger.Type = LedgerFile
	}
	if ledger.Path == "" {
		if ledger.Type == LedgerSQLite {
			ledger.Path = "sent_jobs.db"
		} else {
			ledger.Path = "sent_jobs.json"
		}
	}

	sites := make([]SiteConfig, len(raw.Sites))
	for i, s := range raw.Sites {
		s.Adapter = strings.ToLower(s.Adapter)
		if s.Query == "" {
			s.Query = DefaultQueryFor(s.Adapter)
		}
		if s.Name == "" {
			s.Name = s.Adapter
		}
		sites[i] = s
	}

	notifyType := raw.Notification.Type
	if notifyType == "" {
		notifyType = "telegram"
	}

	cfg := &Config{
		PreferencesPath: orDefault(raw.Preferences, "user_preferences.json"),
		SnapshotPath:    orDefault(raw.SnapshotPath, "scraped_jobs_raw.json"),
		Ledger:          ledger,
		Browser: BrowserConfig{
			Enabled:   boolOr(raw.Browser.Enabled, true),
			RemoteURL: raw.Browser.RemoteURL,
			Headless:  boolOr(raw.Browser.Headless, true),
			UserAgent: orDefault(raw.Browser.UserAgent, "Mozilla/5.0"),
		},
		Scrape: ScrapeConfig{
			Concurrency: concurrency,
			SiteTimeout: siteTimeout,
			Pause:       pause,
			MaxResults:  maxResults,
			MinDelay:    minDelay,
		},
		Sites: sites,
		AI: AIConfig{
			Provider:   provider,
			BaseURL:    aiBaseURL,
			Model:      aiModel,
			APIKey:     raw.AI.APIKey,
			Timeout:    aiTimeout,
			MaxRetries: raw.AI.MaxRetries,
		},
		Notification: NotificationConfig{
			Type:       notifyType,
			Pause:      notifyPause,
			Telegram:   raw.Notification.Telegram,
			WebhookURL: raw.Notification.WebhookURL,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnabledSites returns the sites that should be scanned, in config order.
func (c *Config) EnabledSites() []SiteConfig {
	var out []SiteConfig
	for _, s := range c.Sites {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if len(cfg.EnabledSites()) == 0 {
		return fmt.Errorf("at least one site must be enabled")
	}
	for _, s := range cfg.Sites {
		if _, ok := defaultQueries[s.Adapter]; !ok {
			return fmt.Errorf("site %q: unknown adapter %q", s.Name, s.Adapter)
		}
		if s.Query != QueryLong && s.Query != QuerySimple {
			return fmt.Errorf("site %q: query must be %q or %q, got %q", s.Name, QueryLong, QuerySimple, s.Query)
		}
	}

	if cfg.Ledger.Type != LedgerFile && cfg.Ledger.Type != LedgerSQLite {
		return fmt.Errorf("ledger.type must be %q or %q, got %q", LedgerFile, LedgerSQLite, cfg.Ledger.Type)
	}

	switch cfg.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.provider is %q", cfg.AI.Provider)
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.provider is %q", cfg.AI.Provider)
		}
	case ProviderKeyword:
	default:
		return fmt.Errorf("ai.provider must be one of gemini, openai, keyword; got %q", cfg.AI.Provider)
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}

	switch cfg.Notification.Type {
	case "telegram", "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be one of telegram, slack, log; got %q", cfg.Notification.Type)
	}

	return nil
}

func parseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %v", key, d)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
