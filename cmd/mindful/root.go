package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/config"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var (
	cfg         *config.Config
	journalFile string
	jsonOutput  bool

	// now is the clock behind every default "today".
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "mindful",
	Short: "Mindful - personal wellness journal",
	Long: "Record daily exercise, sleep, water, calories and mood, then review " +
		"day, week and month summaries against your goals.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&journalFile, "file", "",
		"Journal file (overrides config and MINDFUL_JOURNAL_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(nutritionCmd)
	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads configuration and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if journalFile != "" {
		loaded.Journal.Path = journalFile
	}
	cfg = loaded

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Log))
	slog.Debug("configuration loaded", "journal", cfg.Journal.Path, "archive", cfg.Archive.Path)
	return nil
}

// newLogger writes to w, which is stderr outside tests, so stdout carries
// only command output.
func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(lc.Level)}
	if lc.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
