// Package tablemd converts rendered HTML tables into normalized
// pipe-delimited text tables for downstream prompting and archival.
package tablemd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelector matches the portal's financial tables.
const DefaultSelector = "table.min-w-full"

var (
	// ErrNoTable means no table matched the selector.
	ErrNoTable = errors.New("tablemd: no table found")

	// ErrNoTableBody means the matched table has no tbody. A header-only
	// table is not renderable.
	ErrNoTableBody = errors.New("tablemd: no tbody in table")
)

// Render converts the first table matching selector into a pipe table.
// An empty selector falls back to the first table in the document.
//
// When a header row exists, every body row is padded with empty cells on the
// right to the header's width, or truncated when longer. Without a header,
// rows are emitted as-is. The output carries no trailing newline.
func Render(html string, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("tablemd: parse: %w", err)
	}

	sel := selector
	if sel == "" {
		sel = "table"
	}
	table := doc.Find(sel).First()
	if table.Length() == 0 {
		return "", fmt.Errorf("%w: selector %q", ErrNoTable, selector)
	}

	var headers []string
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, cellText(th))
	})

	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		return "", ErrNoTableBody
	}

	var lines []string
	if len(headers) > 0 {
		lines = append(lines, row(headers))
		sep := make([]string, len(headers))
		for i := range sep {
			sep[i] = "---"
		}
		lines = append(lines, row(sep))
	}

	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cellText(td))
		})

		if len(headers) > 0 {
			for len(cells) < len(headers) {
				cells = append(cells, "")
			}
			if len(cells) > len(headers) {
				cells = cells[:len(headers)]
			}
		}
		lines = append(lines, row(cells))
	})

	return strings.Join(lines, "\n"), nil
}

func row(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// cellText collapses a cell's text to single-space-separated words.
func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
