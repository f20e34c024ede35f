package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/hazyhaar/finreport/snapshot"
)

// Meta is the sidecar metadata written next to every snapshot.
type Meta struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Label     string `json:"label"`
	SourceURL string `json:"source_url"`
}

// Archive persists snapshots under <base>/<report_type>/<year>/<month>/.
type Archive struct {
	base   string
	conv   *converter.Converter
	logger *slog.Logger
}

// NewArchive creates an Archive rooted at baseDir.
func NewArchive(baseDir string, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{
		base: baseDir,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		logger: logger,
	}
}

// SaveSnapshot writes page.html, table.html, meta.json, and a best-effort
// page.md rendering of the captured page. It returns the period directory.
// Artifacts written before a later failure stay in place.
func (a *Archive) SaveSnapshot(snap *snapshot.Snapshot) (string, error) {
	w := Writer{Base: filepath.Join(a.base, string(snap.ReportType()))}

	if _, err := w.Write([]byte(snap.PageHTML), snap.Year, snap.Month, "page.html"); err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(snap.TableHTML), snap.Year, snap.Month, "table.html"); err != nil {
		return "", err
	}

	meta, err := json.MarshalIndent(Meta{
		Year:      snap.Year,
		Month:     snap.Month,
		Label:     snap.PeriodLabel,
		SourceURL: snap.SourceURL,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("store: marshal meta: %w", err)
	}
	if _, err := w.Write(meta, snap.Year, snap.Month, "meta.json"); err != nil {
		return "", err
	}

	// Readable markdown rendering of the whole page, for the viewer. Best
	// effort: a conversion failure skips the artifact, never the snapshot.
	if md := a.pageMarkdown(snap); md != "" {
		if _, err := w.Write([]byte(md), snap.Year, snap.Month, "page.md"); err != nil {
			a.logger.Warn("store: page.md write failed", "error", err)
		}
	}

	return w.Dir(snap.Year, snap.Month), nil
}

func (a *Archive) pageMarkdown(snap *snapshot.Snapshot) string {
	md, err := a.conv.ConvertString(snap.PageHTML, converter.WithDomain(snap.SourceURL))
	if err != nil || strings.TrimSpace(md) == "" {
		a.logger.Warn("store: page markdown conversion failed", "error", err)
		return ""
	}
	return strings.TrimSpace(md)
}
