package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/config"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "internscout",
	Short: "Internship radar: one alert per new match",
	Long: "internscout scans internship and job boards, asks a language model which listings\n" +
		"match your preferences, and alerts you once per new posting.",
	// Bare `internscout` runs the pipeline once so cron entries can invoke the binary directly.
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: INTERNSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadEnvFiles loads .env files in priority order:
// ENV_FILE if set (and nothing else), otherwise .env.local then .env.
// godotenv never overrides variables that are already set, so the first
// file to define a key wins. Missing files are ignored.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// resolveConfigPath applies the priority: explicit path > INTERNSCOUT_CONFIG > "./config.yaml".
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("INTERNSCOUT_CONFIG"); env != "" {
		return env
	}
	return "config.yaml"
}

func loadConfig(path string) (*config.Config, error) {
	return config.Load(resolveConfigPath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
