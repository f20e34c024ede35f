package snapshot

import (
	"log/slog"
	"strings"
	"testing"
)

func TestDetectReportType(t *testing.T) {
	tests := []struct {
		url  string
		want ReportType
	}{
		{"https://vuecrest.propvivo.com/Financials/IncomeStatement", IncomeStatement},
		{"https://vuecrest.propvivo.com/Financials/BalanceSheet", BalanceSheet},
		{"https://portal.example.com/reports/BALANCESHEET?m=3", BalanceSheet},
		{"https://portal.example.com/reports/incomestatement", IncomeStatement},
		{"https://portal.example.com/Financials/CashFlow", FinancialReport},
		{"", FinancialReport},
	}

	for _, tt := range tests {
		if got := DetectReportType(tt.url); got != tt.want {
			t.Errorf("DetectReportType(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

const testTable = `<table class="min-w-full border-collapse"><thead><tr><th>Account Name</th></tr></thead><tbody><tr><td>Jane Doe</td></tr></tbody></table>`
const testTableRedacted = `<table class="min-w-full border-collapse"><thead><tr><th>Account Name</th></tr></thead><tbody><tr><td>Account1</td></tr></tbody></table>`

func TestSpliceTableVerbatim(t *testing.T) {
	page := "<html><body><div>header</div>" + testTable + "</body></html>"

	got := spliceTable(page, testTable, testTableRedacted, slog.Default())
	if !strings.Contains(got, "Account1") {
		t.Fatal("redacted table not spliced in")
	}
	if strings.Contains(got, "Jane Doe") {
		t.Fatal("original table still present")
	}
	if !strings.Contains(got, "<div>header</div>") {
		t.Fatal("surrounding markup lost")
	}
}

func TestSpliceTableStructural(t *testing.T) {
	// Whitespace shifted between capture and redaction: the verbatim
	// substring no longer matches and the structural path must run.
	shifted := strings.ReplaceAll(testTable, "><", ">\n<")
	page := "<html><body><div>header</div>" + shifted + "</body></html>"

	got := spliceTable(page, testTable, testTableRedacted, slog.Default())
	if !strings.Contains(got, "Account1") {
		t.Fatal("structural splice did not replace the table")
	}
	if strings.Contains(got, "Jane Doe") {
		t.Fatal("original table survived the structural splice")
	}
	if !strings.Contains(got, "<div>header</div>") {
		t.Fatal("surrounding markup lost")
	}
}

func TestSpliceTableNoMatch(t *testing.T) {
	page := "<html><body><p>no table at all</p></body></html>"

	got := spliceTable(page, testTable, testTableRedacted, slog.Default())
	if got != page {
		t.Fatal("pages without the structural table must pass through unchanged")
	}
}

func TestFindFinancialTableRequiresBothClasses(t *testing.T) {
	page := `<html><body><table class="min-w-full"><tbody><tr><td>x</td></tr></tbody></table></body></html>`

	got := spliceTable(page, testTable, testTableRedacted, slog.Default())
	if got != page {
		t.Fatal("a table missing the border-collapse marker must not be replaced")
	}
}
