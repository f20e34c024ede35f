package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/finreport/config"
)

// NewRootCmd creates the root command for finreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finreport",
		Short: "Fetch, summarize, and serve monthly HOA financial reports",
		Long: `finreport automates the monthly financial reporting loop: it logs into
the PropVivo portal, waits for the dynamic report tables to finish
rendering, captures and redacts them, renders markdown, asks a language
model for a plain-English summary, and archives everything per period.

The serve command runs the report viewer API on top of the same archive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "finreport.yaml", "Path to the YAML configuration file")

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newLogger builds the process-wide JSON logger and installs it as default.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
