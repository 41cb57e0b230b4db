package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/config"
	"github.com/amishk599/internscout/internal/pipeline"
	"github.com/amishk599/internscout/internal/prefs"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List configured sites and the query each will receive",
	Long:  "Reads the config and preferences and prints a table of all configured sites.",
	RunE:  runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	var keywords []string
	if spec, err := prefs.NewFileStore(cfg.PreferencesPath).Load(); err != nil {
		logger.Warn("preferences unreadable, showing default queries", "error", err)
	} else {
		keywords = spec.Keywords
	}
	long, simple := pipeline.Queries(keywords)

	fmt.Printf("%-15s %-12s %-7s %-35s %s\n", "Site", "Adapter", "Style", "Query", "Status")
	fmt.Println(strings.Repeat("─", 80))

	enabled, disabled := 0, 0
	for _, s := range cfg.Sites {
		q := long
		if s.Query == config.QuerySimple {
			q = simple
		}
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		fmt.Printf("%-15s %-12s %-7s %-35s %s\n", s.Name, s.Adapter, s.Query, q, status)
	}

	fmt.Printf("\nTotal: %d sites (%d enabled, %d disabled)\n", len(cfg.Sites), enabled, disabled)
	return nil
}
