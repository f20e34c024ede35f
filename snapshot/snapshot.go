// Package snapshot captures one fully rendered financial report page as an
// immutable value: full page markup, isolated (and, when applicable,
// redacted) table markup, and the resolved reporting period.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/finreport/portal"
	"github.com/hazyhaar/finreport/redact"
)

// ErrTableNotFound means the table vanished between the satisfied ready
// signal and extraction. It should not happen in practice but is handled,
// not assumed away.
var ErrTableNotFound = errors.New("snapshot: financial table not found after wait")

// ReportType is inferred from the source URL, never from page content.
type ReportType string

const (
	IncomeStatement ReportType = "income_statement"
	BalanceSheet    ReportType = "balance_sheet"
	// FinancialReport is the fallback for URLs naming neither report.
	FinancialReport ReportType = "financial_report"
)

// DetectReportType infers the report type by case-insensitive substring
// match on the source URL.
func DetectReportType(sourceURL string) ReportType {
	lower := strings.ToLower(sourceURL)
	switch {
	case strings.Contains(lower, "incomestatement"):
		return IncomeStatement
	case strings.Contains(lower, "balancesheet"):
		return BalanceSheet
	default:
		return FinancialReport
	}
}

// Snapshot is one fully captured, fully processed view of a report page.
// Immutable after Capture. TableHTML is always the redacted form for report
// types other than income statements; the raw form is never persisted for
// those types.
type Snapshot struct {
	PeriodLabel string
	Year        int
	Month       int
	PageHTML    string
	TableHTML   string
	SourceURL   string
}

// ReportType infers the snapshot's report type from its source URL.
func (s *Snapshot) ReportType() ReportType {
	return DetectReportType(s.SourceURL)
}

// Capture assembles a Snapshot from a fully navigated page. It re-confirms
// table readiness, captures page and table markup, redacts the table unless
// the report is an income statement, splices the redacted markup back into
// the page, and resolves the reporting period.
func Capture(ctx context.Context, page *rod.Page, timeout time.Duration, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := portal.WaitFinancialTable(ctx, page, timeout, logger); err != nil {
		return nil, err
	}

	pageHTML, err := page.Context(ctx).HTML()
	if err != nil {
		return nil, fmt.Errorf("snapshot: read page markup: %w", err)
	}

	has, tableEl, err := page.Context(ctx).Has(portal.TableSelector)
	if err != nil {
		return nil, fmt.Errorf("snapshot: locate table: %w", err)
	}
	if !has {
		return nil, ErrTableNotFound
	}
	tableHTML, err := tableEl.HTML()
	if err != nil {
		return nil, fmt.Errorf("snapshot: read table markup: %w", err)
	}

	sourceURL, err := portal.CurrentURL(page)
	if err != nil {
		return nil, err
	}

	finalTable := tableHTML
	if DetectReportType(sourceURL) != IncomeStatement {
		redacted, mapping, err := redact.AccountNames(tableHTML)
		if err != nil {
			return nil, err
		}
		finalTable = redacted
		pageHTML = spliceTable(pageHTML, tableHTML, redacted, logger)
		logger.Debug("snapshot: table redacted", "pseudonyms", len(mapping))
	}

	period, err := portal.ResolvePeriod(ctx, page, timeout)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		PeriodLabel: period.Label,
		Year:        period.Year,
		Month:       period.Month,
		PageHTML:    pageHTML,
		TableHTML:   finalTable,
		SourceURL:   sourceURL,
	}, nil
}
