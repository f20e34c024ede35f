// Package redact rewrites account-identifying cells in financial tables.
//
// The rules are deliberate and narrow, carried over from the reporting
// portal's established behavior rather than a general PII scrubber:
//
//   - a name containing a dash keeps only the part after the last dash,
//     dropping institution/bank prefixes ("Bank XYZ - Reserve Account"
//     becomes "Reserve Account"); such names are never pseudonymized
//   - any other name is replaced by a sequential pseudonym AccountN,
//     assigned in first-seen order within one table
package redact

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// accountColumnHeader is matched case-insensitively against trimmed header
// cell text to locate the column to rewrite.
const accountColumnHeader = "account name"

// AccountNames rewrites the account-name column of the first table in
// tableHTML and returns the serialized table plus the name-to-pseudonym map.
//
// Redaction is a no-op, not an error, when the table, the header column, or
// the body is absent: the input is returned unchanged with an empty map.
// The map is scoped to this one call and must not be persisted.
func AccountNames(tableHTML string) (string, map[string]string, error) {
	mapping := map[string]string{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return "", nil, fmt.Errorf("redact: parse table: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return tableHTML, mapping, nil
	}

	nameIdx := -1
	table.Find("thead th").EachWithBreak(func(i int, th *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(th.Text()), accountColumnHeader) {
			nameIdx = i
			return false
		}
		return true
	})
	if nameIdx < 0 {
		return tableHTML, mapping, nil
	}

	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		return tableHTML, mapping, nil
	}

	nextIndex := 1
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		// Malformed short rows are tolerated, not fatal.
		if nameIdx >= cells.Length() {
			return
		}
		cell := cells.Eq(nameIdx)
		redacted, ok := applyRules(strings.TrimSpace(cell.Text()), mapping, &nextIndex)
		if ok {
			cell.SetText(redacted)
		}
	})

	out, err := goquery.OuterHtml(table)
	if err != nil {
		return "", nil, fmt.Errorf("redact: serialize table: %w", err)
	}
	return out, mapping, nil
}

// applyRules redacts a single trimmed cell value. The dash rule always takes
// precedence over pseudonymization. Empty cells are left untouched.
func applyRules(trimmed string, mapping map[string]string, nextIndex *int) (string, bool) {
	if trimmed == "" {
		return "", false
	}

	if idx := strings.LastIndex(trimmed, "-"); idx >= 0 {
		stripped := strings.TrimSpace(trimmed[idx+1:])
		if stripped == "" {
			return trimmed, true
		}
		return stripped, true
	}

	if _, seen := mapping[trimmed]; !seen {
		mapping[trimmed] = fmt.Sprintf("Account%d", *nextIndex)
		*nextIndex++
	}
	return mapping[trimmed], true
}
