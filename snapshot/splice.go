package snapshot

import (
	"bytes"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// spliceTable replaces the original table markup inside the page markup with
// its redacted form. Capture and redaction are separate passes, so the
// literal table text may have shifted (whitespace normalization during
// reserialization); when the verbatim substring is gone, the table is
// replaced structurally instead.
func spliceTable(pageHTML, originalTable, redactedTable string, logger *slog.Logger) string {
	if strings.Contains(pageHTML, originalTable) {
		return strings.Replace(pageHTML, originalTable, redactedTable, 1)
	}

	out, ok := spliceStructural(pageHTML, redactedTable)
	if !ok {
		logger.Warn("snapshot: table splice failed, page markup keeps the unredacted table copy out of band")
		return pageHTML
	}
	return out
}

// spliceStructural parses the page, locates the structural financial table,
// replaces its subtree with the redacted fragment, and reserializes.
func spliceStructural(pageHTML, redactedTable string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	target := findFinancialTable(doc)
	if target == nil || target.Parent == nil {
		return "", false
	}

	replacement := parseTableFragment(redactedTable)
	if replacement == nil {
		return "", false
	}

	target.Parent.InsertBefore(replacement, target)
	target.Parent.RemoveChild(target)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", false
	}
	return buf.String(), true
}

// findFinancialTable walks the tree for a table carrying the structural
// class markers.
func findFinancialTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table &&
		hasClass(n, "min-w-full") && hasClass(n, "border-collapse") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFinancialTable(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// parseTableFragment parses standalone table markup and returns the table
// node, detached and ready for insertion.
func parseTableFragment(tableHTML string) *html.Node {
	ctxNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(tableHTML), ctxNode)
	if err != nil {
		return nil
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			return n
		}
	}
	return nil
}
