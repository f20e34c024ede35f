package portal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// Period resolution failures. Both wrap the offending text.
var (
	ErrUnrecognizedMonth = errors.New("portal: unrecognized month text")
	ErrUnrecognizedYear  = errors.New("portal: unrecognized year text")
)

// ReportingPeriod is the normalized reporting period for one page view.
// Canonical is always "YYYY-MM": 7 characters with '-' at index 4.
type ReportingPeriod struct {
	MonthText string
	YearText  string
	Month     int // 1..12
	Year      int
	Canonical string
	Label     string // "<month text> <year>"
}

var monthLookup = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeMonth converts month text into a 1-based month number. Numeric
// text in [1,12] is used directly; otherwise full and 3-letter English month
// names match case-insensitively.
func NormalizeMonth(text string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 12 {
		return n, nil
	}
	if n, ok := monthLookup[key]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedMonth, text)
}

// NewPeriod normalizes raw month and year control text into a ReportingPeriod.
func NewPeriod(monthText, yearText string) (ReportingPeriod, error) {
	monthText = strings.TrimSpace(monthText)
	yearText = strings.TrimSpace(yearText)

	month, err := NormalizeMonth(monthText)
	if err != nil {
		return ReportingPeriod{}, err
	}

	if yearText == "" || !allDigits(yearText) {
		return ReportingPeriod{}, fmt.Errorf("%w: %q", ErrUnrecognizedYear, yearText)
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return ReportingPeriod{}, fmt.Errorf("%w: %q", ErrUnrecognizedYear, yearText)
	}

	return ReportingPeriod{
		MonthText: monthText,
		YearText:  yearText,
		Month:     month,
		Year:      year,
		Canonical: fmt.Sprintf("%04d-%02d", year, month),
		Label:     fmt.Sprintf("%s %d", monthText, year),
	}, nil
}

// ResolvePeriod reads the month and year controls from a ready page and
// normalizes them. Text is taken at face value: no timezone or locale logic.
func ResolvePeriod(ctx context.Context, page *rod.Page, timeout time.Duration) (ReportingPeriod, error) {
	p := page.Context(ctx).Timeout(timeout)

	monthEl, err := p.Element(MonthSelector)
	if err != nil {
		return ReportingPeriod{}, fmt.Errorf("portal: month control: %w", err)
	}
	monthText, err := monthEl.Text()
	if err != nil {
		return ReportingPeriod{}, fmt.Errorf("portal: month text: %w", err)
	}

	yearEl, err := p.Element(YearSelector)
	if err != nil {
		return ReportingPeriod{}, fmt.Errorf("portal: year control: %w", err)
	}
	yearText, err := yearEl.Text()
	if err != nil {
		return ReportingPeriod{}, fmt.Errorf("portal: year text: %w", err)
	}

	return NewPeriod(monthText, yearText)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
