package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/finreport/browse"
	"github.com/hazyhaar/finreport/config"
	"github.com/hazyhaar/finreport/portal"
	"github.com/hazyhaar/finreport/snapshot"
	"github.com/hazyhaar/finreport/store"
	"github.com/hazyhaar/finreport/summarize"
	"github.com/hazyhaar/finreport/tablemd"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Capture and summarize the current month's financial reports",
		Long: `Fetch logs into the portal, captures the income statement and the
balance sheet for the reporting period currently in effect, archives the
snapshots, and writes a model-generated financial summary.

The two reports are fetched sequentially on one page; there is no retry
loop — any unrecovered failure ends the run non-zero, leaving already
written artifacts in place.`,
		RunE: runFetch,
	}

	cmd.Flags().String("headless", "", "Run the browser headless (true/false, overrides config)")
	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)

	if raw, _ := cmd.Flags().GetString("headless"); raw != "" {
		cfg.Browser.Headless = config.ParseBool(raw, cfg.Browser.Headless)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	username, password, err := cfg.Credentials()
	if err != nil {
		return err
	}

	db, err := store.OpenDB(cfg.Output.IndexDB)
	if err != nil {
		return err
	}
	defer db.Close()
	index := store.NewIndex(db)
	if err := index.Init(ctx); err != nil {
		return err
	}

	if err := fetchAndSummarize(ctx, cfg, username, password, index, logger); err != nil {
		index.RecordEvent(ctx, "fetch", err.Error(), false)
		logger.Error("fetch failed", "error", err)
		return err
	}
	index.RecordEvent(ctx, "fetch", "", true)
	return nil
}

func fetchAndSummarize(ctx context.Context, cfg *config.Config, username, password string, index *store.Index, logger *slog.Logger) error {
	session, err := browse.Open(ctx, browse.Config{
		Headless: cfg.Browser.Headless,
		Remote:   cfg.Browser.Remote,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	logger.Info("logging in", "user", username)
	if err := browse.Login(ctx, session.Page(), cfg.Portal.LoginURL, username, password, cfg.Portal.Timeout, logger); err != nil {
		return err
	}

	archive := store.NewArchive(cfg.Output.SnapshotDir, logger)

	incomeSnap, incomeMD, err := fetchReport(ctx, cfg, session, archive, index, cfg.Portal.IncomeStatementURL, logger)
	if err != nil {
		return err
	}

	_, balanceMD, err := fetchReport(ctx, cfg, session, archive, index, cfg.Portal.BalanceSheetURL, logger)
	if err != nil {
		return err
	}

	// The period label comes from the income statement; the balance sheet is
	// assumed to show the same month.
	periodLabel := incomeSnap.PeriodLabel

	legalDetails := readLegalDetails(cfg.Output.SummaryDir, incomeSnap.Year, incomeSnap.Month, logger)

	logger.Info("requesting summary", "period", periodLabel)
	client := summarize.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	prompt := summarize.BuildPrompt(incomeMD, balanceMD, periodLabel, true, legalDetails)
	summary, err := client.Complete(ctx, prompt)
	if err != nil {
		return err
	}

	writer := store.Writer{Base: cfg.Output.SummaryDir}
	path, err := writer.Write([]byte(summary), incomeSnap.Year, incomeSnap.Month, "financial_summary.md")
	if err != nil {
		return err
	}
	logger.Info("summary saved", "path", path)
	return nil
}

// fetchReport navigates to one report, captures its snapshot, archives it,
// and renders its table as markdown.
func fetchReport(ctx context.Context, cfg *config.Config, session *browse.Session, archive *store.Archive, index *store.Index, url string, logger *slog.Logger) (*snapshot.Snapshot, string, error) {
	reportType := snapshot.DetectReportType(url)
	logger.Info("navigating to report", "type", reportType, "url", url)

	if _, err := portal.OpenReport(ctx, session.Page(), url, cfg.Portal.Timeout, logger); err != nil {
		return nil, "", err
	}

	snap, err := snapshot.Capture(ctx, session.Page(), cfg.Portal.Timeout, logger)
	if err != nil {
		return nil, "", err
	}

	dir, err := archive.SaveSnapshot(snap)
	if err != nil {
		return nil, "", err
	}
	logger.Info("snapshot saved", "type", reportType, "dir", dir)

	period := fmt.Sprintf("%04d-%02d", snap.Year, snap.Month)
	if err := index.RecordSnapshot(ctx, string(snap.ReportType()), period, snap.Year, snap.Month, snap.PeriodLabel, snap.SourceURL, dir); err != nil {
		logger.Warn("snapshot index insert failed", "error", err)
	}

	md, err := tablemd.Render(snap.TableHTML, tablemd.DefaultSelector)
	if err != nil {
		return nil, "", err
	}
	return snap, md, nil
}

// readLegalDetails loads the homeowner-submitted legal notes for the period
// when present. Missing files are normal.
func readLegalDetails(summaryDir string, year, month int, logger *slog.Logger) string {
	path := filepath.Join(summaryDir, fmt.Sprintf("%d", year), fmt.Sprintf("%02d", month), "legal_details.md")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	logger.Info("including legal details", "path", path)
	return string(data)
}
