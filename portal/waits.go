package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
)

// Stage names for the table-ready protocol, in execution order.
const (
	StageTable     = "table"
	StageChrome    = "chrome"
	StageTotals    = "totals"
	StageLazyNudge = "lazy_nudge"
)

// StageOutcome records how one wait stage ended. Soft failures are logged
// and carried in the report; fatal failures propagate as the returned error.
type StageOutcome struct {
	Stage   string
	OK      bool
	Fatal   bool
	Err     error
	Elapsed time.Duration
}

// ReadyReport lists the outcome of every stage that ran. It is returned even
// on failure so callers and tests can see which stage broke.
type ReadyReport struct {
	Stages []StageOutcome
}

// Soft reports whether any stage soft-failed.
func (r *ReadyReport) Soft() bool {
	for _, s := range r.Stages {
		if !s.OK && !s.Fatal {
			return true
		}
	}
	return false
}

func (r *ReadyReport) record(stage string, fatal bool, start time.Time, err error) {
	r.Stages = append(r.Stages, StageOutcome{
		Stage:   stage,
		OK:      err == nil,
		Fatal:   fatal,
		Err:     err,
		Elapsed: time.Since(start),
	})
}

// WaitFinancialTable blocks until the financial table is interactable, or
// the per-stage timeout expires on a fatal stage.
//
// Stages, each bounded by the same timeout:
//  1. structural table element exists — fatal on timeout
//  2. any chrome indicator (toolbar, Export/Print, header container) — soft
//  3. at least one bold totals row — fatal on timeout
//  4. scroll to the bottom and re-wait the totals row, nudging lazy rows — soft
func WaitFinancialTable(ctx context.Context, page *rod.Page, timeout time.Duration, logger *slog.Logger) (*ReadyReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	report := &ReadyReport{}

	// Stage 1: the table itself must exist.
	start := time.Now()
	_, err := page.Context(ctx).Timeout(timeout).Element(TableSelector)
	report.record(StageTable, true, start, err)
	if err != nil {
		return report, fmt.Errorf("portal: financial table did not appear: %w", err)
	}

	// Stage 2: page chrome, first match wins. Redesigns may remove any single
	// indicator, so a miss here is logged and swallowed.
	start = time.Now()
	err = waitChrome(ctx, page, timeout)
	report.record(StageChrome, false, start, err)
	if err != nil {
		logger.Warn("portal: page chrome not confirmed, continuing", "error", err)
	}

	// Stage 3: a bold totals row proves the async aggregation finished.
	start = time.Now()
	_, err = page.Context(ctx).Timeout(timeout).Element(TotalsRowSelector)
	report.record(StageTotals, true, start, err)
	if err != nil {
		return report, fmt.Errorf("portal: totals row did not appear: %w", err)
	}

	// Stage 4: nudge lazy rows by scrolling, then reconfirm the totals row
	// with a fresh timeout.
	start = time.Now()
	err = lazyNudge(ctx, page, timeout)
	report.record(StageLazyNudge, false, start, err)
	if err != nil {
		logger.Debug("portal: lazy-row nudge did not reconfirm totals", "error", err)
	}

	return report, nil
}

// waitChrome races the known chrome indicators under one timeout.
func waitChrome(ctx context.Context, page *rod.Page, timeout time.Duration) error {
	p := page.Context(ctx).Timeout(timeout)
	_, err := p.Race().
		Element(`div[role="toolbar"]`).
		ElementR("button", "/export/i").
		ElementR("button", "/print/i").
		Element("div.tableTopData").
		Element("header").
		Do()
	if err != nil {
		return fmt.Errorf("portal: no chrome indicator: %w", err)
	}
	return nil
}

func lazyNudge(ctx context.Context, page *rod.Page, timeout time.Duration) error {
	p := page.Context(ctx).Timeout(timeout)
	if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return fmt.Errorf("portal: scroll nudge: %w", err)
	}
	if _, err := page.Context(ctx).Timeout(timeout).Element(TotalsRowSelector); err != nil {
		return fmt.Errorf("portal: totals row after scroll: %w", err)
	}
	return nil
}
