package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
)

// OpenReport navigates to a report URL and blocks until its financial table
// is ready. Navigation waits for the DOM to load; the subsequent idle wait is
// best effort because these pages keep background requests open.
func OpenReport(ctx context.Context, page *rod.Page, url string, timeout time.Duration, logger *slog.Logger) (*ReadyReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("portal: navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		logger.Warn("portal: wait load timeout", "url", url, "error", err)
	}
	if err := p.WaitIdle(timeout); err != nil {
		logger.Debug("portal: idle wait expired, continuing", "url", url, "error", err)
	}

	return WaitFinancialTable(ctx, page, timeout, logger)
}

// CurrentURL reports the page's current URL.
func CurrentURL(page *rod.Page) (string, error) {
	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("portal: page info: %w", err)
	}
	return info.URL, nil
}
