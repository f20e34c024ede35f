package redact

import (
	"strings"
	"testing"
)

func buildTable(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<table class="min-w-full border-collapse"><thead><tr>`)
	for _, h := range headers {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + cell + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func TestAccountNamesDashRule(t *testing.T) {
	in := buildTable(
		[]string{"Account Name", "Balance"},
		[][]string{{"First National - Reserve Fund", "100.00"}},
	)

	out, mapping, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ">Reserve Fund<") {
		t.Fatalf("dash rule should strip the institution prefix, got:\n%s", out)
	}
	if strings.Contains(out, "First National") {
		t.Fatal("institution prefix leaked into output")
	}
	if len(mapping) != 0 {
		t.Fatalf("dash-stripped names must not be pseudonymized, mapping = %v", mapping)
	}
}

func TestAccountNamesDashOnlyFallback(t *testing.T) {
	in := buildTable(
		[]string{"Account Name"},
		[][]string{{"Operating -"}},
	)

	out, _, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	// Empty text after the last dash falls back to the original trimmed name.
	if !strings.Contains(out, "Operating -") {
		t.Fatalf("expected fallback to original text, got:\n%s", out)
	}
}

func TestAccountNamesPseudonymOrder(t *testing.T) {
	in := buildTable(
		[]string{"Account Name", "Balance"},
		[][]string{
			{"Jane Doe", "1.00"},
			{"John Roe", "2.00"},
			{"Jane Doe", "3.00"},
		},
	)

	out, mapping, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	if mapping["Jane Doe"] != "Account1" {
		t.Fatalf("Jane Doe = %q, want Account1", mapping["Jane Doe"])
	}
	if mapping["John Roe"] != "Account2" {
		t.Fatalf("John Roe = %q, want Account2", mapping["John Roe"])
	}
	if strings.Count(out, ">Account1<") != 2 {
		t.Fatalf("repeated name should reuse its pseudonym, got:\n%s", out)
	}
	if strings.Contains(out, "Jane Doe") || strings.Contains(out, "John Roe") {
		t.Fatal("original names leaked into output")
	}
}

func TestAccountNamesIdempotent(t *testing.T) {
	in := buildTable(
		[]string{"Account Name"},
		[][]string{{"Jane Doe"}, {"John Roe"}},
	)

	once, _, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	twice, _, err := AccountNames(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Fatalf("redaction should be idempotent on pseudonyms:\nonce: %s\ntwice: %s", once, twice)
	}
}

func TestAccountNamesNoColumn(t *testing.T) {
	in := buildTable(
		[]string{"Category", "Balance"},
		[][]string{{"Legal Fees", "50.00"}},
	)

	out, mapping, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatal("missing account-name column must be a no-op")
	}
	if len(mapping) != 0 {
		t.Fatalf("no-op should return an empty mapping, got %v", mapping)
	}
}

func TestAccountNamesHeaderCaseInsensitive(t *testing.T) {
	in := buildTable(
		[]string{"  ACCOUNT NAME  "},
		[][]string{{"Jane Doe"}},
	)

	_, mapping, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	if mapping["Jane Doe"] != "Account1" {
		t.Fatalf("header match should ignore case and padding, mapping = %v", mapping)
	}
}

func TestAccountNamesShortRowsTolerated(t *testing.T) {
	in := `<table><thead><tr><th>Category</th><th>Account Name</th></tr></thead>` +
		`<tbody><tr><td>only one cell</td></tr><tr><td>Assets</td><td>Jane Doe</td></tr></tbody></table>`

	out, mapping, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	if mapping["Jane Doe"] != "Account1" {
		t.Fatalf("mapping = %v", mapping)
	}
	if !strings.Contains(out, "only one cell") {
		t.Fatal("short row should pass through untouched")
	}
}

func TestAccountNamesNoTbody(t *testing.T) {
	in := `<table><thead><tr><th>Account Name</th></tr></thead></table>`

	out, mapping, err := AccountNames(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != in || len(mapping) != 0 {
		t.Fatal("missing tbody must be a no-op")
	}
}
