package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/adapter"
	"github.com/amishk599/internscout/internal/audit"
	"github.com/amishk599/internscout/internal/config"
	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/pipeline"
	"github.com/amishk599/internscout/internal/prefs"
	"github.com/amishk599/internscout/internal/store"
)

var auditSnapshot bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Browse scraped listings interactively (TUI)",
	Long: "Shows the site picker, scrapes the chosen site and opens the split-pane audit view.\n" +
		"With --snapshot the last run's raw snapshot is browsed instead and nothing is scraped.",
	RunE: runAuditCmd,
}

func init() {
	auditCmd.Flags().BoolVar(&auditSnapshot, "snapshot", false, "browse the last raw snapshot instead of scraping")
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	spec, err := prefs.NewFileStore(cfg.PreferencesPath).Load()
	if err != nil {
		logger.Error("failed to load preferences", "error", err)
		return err
	}

	// Anything logged once the alt-screen is up corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	extractor := setupExtractor(cfg, silentLogger)

	if auditSnapshot {
		records, err := store.ReadSnapshot(cfg.SnapshotPath)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		_, err = audit.RunAuditTUI(records, spec, extractor)
		return err
	}

	return runAudit(cfg, spec, extractor, silentLogger)
}

func runAudit(cfg *config.Config, spec model.PreferenceSpec, extractor model.Extractor, logger *slog.Logger) error {
	enabled := cfg.EnabledSites()
	if len(enabled) == 0 {
		fmt.Println("No enabled sites in config.")
		return nil
	}

	long, simple := pipeline.Queries(spec.Keywords)
	items := make([]audit.PickerItem, len(enabled))
	for i, s := range enabled {
		q := long
		if s.Query == config.QuerySimple {
			q = simple
		}
		items[i] = audit.PickerItem{Site: s, Query: q}
	}

	loader := setupLoader(cfg, logger)
	deps := adapter.Deps{Loader: loader, MaxResults: cfg.Scrape.MaxResults, Logger: logger}

	for {
		choice, err := audit.RunSitePicker(items)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}
		item := items[choice]

		a, err := adapter.New(item.Site.Adapter, deps)
		if err != nil {
			fmt.Printf("Unsupported adapter: %s\n", item.Site.Adapter)
			continue
		}

		records, err := audit.RunLoader(item.Site.Name, func(ctx context.Context) ([]model.RawRecord, error) {
			if err := loader.Open(ctx); err != nil {
				return nil, err
			}
			defer loader.Close()
			return a.Scrape(ctx, item.Query)
		})
		if err != nil {
			fmt.Printf("Error scraping %s: %v\n", item.Site.Name, err)
			continue
		}

		wantQuit, err := audit.RunAuditTUI(records, spec, extractor)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
	}
}
