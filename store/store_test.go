package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/finreport/snapshot"
)

func TestWriterPathShape(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Base: dir}

	path, err := w.Write([]byte("hello"), 2025, 3, "note.md")
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "2025", "03", "note.md")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Fatalf("content = %q", data)
	}
}

func TestWriterTwoDigitMonth(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Base: dir}

	path, err := w.Write([]byte("x"), 2025, 11, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(path, filepath.Join("2025", "11")) {
		t.Fatalf("path = %q", path)
	}
}

func testSnapshot() *snapshot.Snapshot {
	table := `<table class="min-w-full border-collapse"><thead><tr><th>Category</th></tr></thead><tbody><tr><td>Assets</td></tr></tbody></table>`
	return &snapshot.Snapshot{
		PeriodLabel: "October 2025",
		Year:        2025,
		Month:       10,
		PageHTML:    "<html><body><h1>Balance Sheet</h1>" + table + "</body></html>",
		TableHTML:   table,
		SourceURL:   "https://vuecrest.propvivo.com/Financials/BalanceSheet",
	}
}

func TestArchiveSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir, slog.Default())

	outDir, err := a.SaveSnapshot(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "balance_sheet", "2025", "10")
	if outDir != want {
		t.Fatalf("dir = %q, want %q", outDir, want)
	}

	for _, name := range []string{"page.html", "table.html", "meta.json", "page.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected artifact %s: %v", name, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Year != 2025 || meta.Month != 10 || meta.Label != "October 2025" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.SourceURL != "https://vuecrest.propvivo.com/Financials/BalanceSheet" {
		t.Fatalf("source_url = %q", meta.SourceURL)
	}
}

func TestIndexRecordAndList(t *testing.T) {
	db := OpenMemoryDB(t)
	x := NewIndex(db)
	ctx := context.Background()

	if err := x.Init(ctx); err != nil {
		t.Fatal(err)
	}
	// Init is idempotent.
	if err := x.Init(ctx); err != nil {
		t.Fatal(err)
	}

	if err := x.RecordSnapshot(ctx, "income_statement", "2025-09", 2025, 9, "September 2025", "https://x/IncomeStatement", "/tmp/a"); err != nil {
		t.Fatal(err)
	}
	if err := x.RecordSnapshot(ctx, "balance_sheet", "2025-10", 2025, 10, "October 2025", "https://x/BalanceSheet", "/tmp/b"); err != nil {
		t.Fatal(err)
	}

	entries, err := x.ListPeriods(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	// Newest period first.
	if entries[0].Period != "2025-10" || entries[0].ReportType != "balance_sheet" {
		t.Fatalf("first entry = %+v", entries[0])
	}
}

func TestIndexRecordEventNeverFails(t *testing.T) {
	db := OpenMemoryDB(t)
	x := NewIndex(db)
	ctx := context.Background()
	if err := x.Init(ctx); err != nil {
		t.Fatal(err)
	}

	x.RecordEvent(ctx, "fetch", "", true)
	x.RecordEvent(ctx, "fetch", "portal: totals row did not appear", false)

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM run_events").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("run_events = %d", n)
	}
}
