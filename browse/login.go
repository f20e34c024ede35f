package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// ErrLogin marks authentication failures: bad credentials, a redesigned
// login form, or a login that never left the login page. The cause chain is
// preserved through %w wrapping.
var ErrLogin = errors.New("browse: login failed")

var (
	emailSelectors = []string{
		`input[name="username"]`,
		`input[name="email"]`,
		`input[type="email"]`,
	}
	passwordSelectors = []string{
		`input[name="password"]`,
		`input[type="password"]`,
	}
	submitSelectors = []string{
		`button[type="submit"]`,
	}
)

// Login authenticates the page against the portal login form. The form
// layout drifts across portal releases, so each field is located by trying a
// list of candidate selectors in order.
func Login(ctx context.Context, page *rod.Page, loginURL, username, password string, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	navCtx, cancel := context.WithTimeout(ctx, timeout)
	p := page.Context(navCtx)
	err := p.Navigate(loginURL)
	if err == nil {
		err = p.WaitLoad()
	}
	cancel()
	if err != nil {
		return fmt.Errorf("%w: open login page: %w", ErrLogin, err)
	}

	emailEl, err := firstExisting(page, emailSelectors)
	if err != nil {
		return fmt.Errorf("%w: login form did not render an email input", ErrLogin)
	}
	passwordEl, err := firstExisting(page, passwordSelectors)
	if err != nil {
		return fmt.Errorf("%w: login form did not render a password input", ErrLogin)
	}

	if err := emailEl.Input(username); err != nil {
		return fmt.Errorf("%w: fill username: %w", ErrLogin, err)
	}
	if err := passwordEl.Input(password); err != nil {
		return fmt.Errorf("%w: fill password: %w", ErrLogin, err)
	}

	submitEl, err := firstExisting(page, submitSelectors)
	if err != nil {
		// Text-matched fallback for forms without a typed submit button.
		submitEl, err = page.Timeout(timeout).ElementR("button", "/log ?in/i")
		if err != nil {
			return fmt.Errorf("%w: login form did not render a submit control", ErrLogin)
		}
	}

	// Wrap the click in a navigation expectation. Some flows stay on the same
	// page and settle via XHR, so an expired wait is not fatal on its own.
	waitNav := page.Timeout(timeout).WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("%w: click submit: %w", ErrLogin, err)
	}
	waitNav()

	if err := page.Timeout(timeout).WaitIdle(timeout); err != nil {
		logger.Debug("browse: post-login idle wait expired", "error", err)
	}

	info, err := page.Info()
	if err != nil {
		return fmt.Errorf("%w: read post-login url: %w", ErrLogin, err)
	}
	if strings.Contains(strings.ToLower(info.URL), "login") {
		// Probe for a visible rejection message before deciding why we are
		// still here.
		if el, perr := page.Timeout(2 * time.Second).ElementR("div, span, p", "/invalid|incorrect/i"); perr == nil && el != nil {
			return fmt.Errorf("%w: rejected credentials", ErrLogin)
		}
		return fmt.Errorf("%w: still on login page", ErrLogin)
	}

	logger.Info("browse: login succeeded", "url", info.URL)
	return nil
}

// firstExisting returns the first element matching any candidate selector,
// without waiting.
func firstExisting(page *rod.Page, selectors []string) (*rod.Element, error) {
	for _, sel := range selectors {
		has, el, err := page.Has(sel)
		if err == nil && has {
			return el, nil
		}
	}
	return nil, fmt.Errorf("browse: none of %d selectors matched", len(selectors))
}
