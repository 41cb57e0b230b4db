package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/internscout/internal/config"
	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/pipeline"
	"github.com/amishk599/internscout/internal/scrape"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("INTERNSCOUT_CONFIG", "")
	if got := resolveConfigPath(""); got != "config.yaml" {
		t.Errorf("default = %q", got)
	}

	t.Setenv("INTERNSCOUT_CONFIG", "/etc/internscout.yaml")
	if got := resolveConfigPath(""); got != "/etc/internscout.yaml" {
		t.Errorf("env = %q", got)
	}
	if got := resolveConfigPath("flag.yaml"); got != "flag.yaml" {
		t.Errorf("flag should win, got %q", got)
	}
}

func TestLoadEnvFiles_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	if err := os.WriteFile(path, []byte("INTERNSCOUT_TEST_VAR=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("INTERNSCOUT_TEST_VAR", "")
	os.Unsetenv("INTERNSCOUT_TEST_VAR")

	if err := loadEnvFiles(); err != nil {
		t.Fatalf("loadEnvFiles: %v", err)
	}
	if got := os.Getenv("INTERNSCOUT_TEST_VAR"); got != "from-file" {
		t.Errorf("INTERNSCOUT_TEST_VAR = %q", got)
	}
}

func TestLoadEnvFiles_MissingFileIgnored(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))
	if err := loadEnvFiles(); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	state := pipeline.State{
		RunID: "run-1",
		Stage: pipeline.StageDone,
		Sites: []scrape.SiteResult{
			{Site: "Internshala", Records: 5},
			{Site: "Unstop", Err: errors.New("navigation timeout")},
		},
		Log: pipeline.RunLog{
			{Stage: "PLANNING", Message: "Starting run across 2 sites."},
			{Stage: "SCRAPING", Message: "Scraped 5 raw data blocks.", Count: 5},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, state)
	out := buf.String()

	for _, want := range []string{
		"run-1",
		"Internshala",
		"5 records",
		"failed: navigation timeout",
		"- PLANNING: Starting run across 2 sites.\n",
		"- SCRAPING: Scraped 5 raw data blocks.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestOpenLedger_File(t *testing.T) {
	cfg := minimalConfig(t)
	l, closeFn, err := openLedger(cfg)
	if err != nil {
		t.Fatalf("openLedger: %v", err)
	}
	defer closeFn()
	if err := l.Append([]string{"https://a"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	ids, _ := l.Load()
	if len(ids) != 1 {
		t.Errorf("ids = %v", ids)
	}
}

func TestBuildSites_UnknownAdapterIsConfigurationError(t *testing.T) {
	cfg := minimalConfig(t)
	cfg.Sites[0].Adapter = "linkedin"
	_, err := buildSites(cfg, nil, discardLogger())
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func minimalConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		PreferencesPath: filepath.Join(dir, "user_preferences.json"),
		SnapshotPath:    filepath.Join(dir, "scraped_jobs_raw.json"),
		Ledger:          config.LedgerConfig{Type: config.LedgerFile, Path: filepath.Join(dir, "sent_jobs.json")},
		Sites: []config.SiteConfig{
			{Name: "Internshala", Adapter: "internshala", Query: config.QueryLong, Enabled: true},
		},
		AI:           config.AIConfig{Provider: config.ProviderKeyword},
		Notification: config.NotificationConfig{Type: "log"},
	}
}
