// Package browse manages the Chrome lifecycle for portal scraping: launch or
// remote attach via Rod, one stealth page per session, and best-effort release
// of the whole chain on every exit path.
package browse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Config configures a browser session.
type Config struct {
	// Headless controls the local Chrome launch mode. Ignored for remote.
	Headless bool

	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	Remote string

	Logger *slog.Logger
}

// Session owns one Chrome instance and one page. The page is an exclusively
// owned resource: a session never hands it to concurrent users.
type Session struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	logger  *slog.Logger
}

// Open launches (or attaches to) Chrome and opens a stealth page. Call Close
// on every path, including failures after Open returns.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var (
		wsURL string
		lnch  *launcher.Launcher
	)
	if cfg.Remote != "" {
		wsURL = cfg.Remote
		log.Info("browse: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(cfg.Headless).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browse: launch: %w", err)
		}
		wsURL = u
		lnch = l
		log.Info("browse: launched local chrome", "headless", cfg.Headless)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("browse: connect: %w", err)
	}

	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browse: ignore cert errors failed", "error", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		_ = b.Close()
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("browse: create page: %w", err)
	}

	return &Session{browser: b, lnch: lnch, page: page, logger: log}, nil
}

// Page returns the session's page handle.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close releases page, browser, and launcher in order. Failures are swallowed
// so cleanup never masks the error that ended the session.
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.Debug("browse: page close", "error", err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Debug("browse: browser close", "error", err)
		}
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
	}
}
