package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/hazyhaar/finreport/store"
)

// legalDetailsRequest is the POST /api/legal-details body.
type legalDetailsRequest struct {
	Year              *int   `json:"year"`
	Month             *int   `json:"month"`
	ActiveLitigation  *int   `json:"active_litigation"`
	ClosedLitigations string `json:"closed_litigations"`
}

func (s *Server) handleLegalDetails(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	var req legalDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Request body must be valid JSON."})
		return
	}

	if req.Year == nil || req.Month == nil || req.ActiveLitigation == nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Fields year, month, active_litigation are required numbers."})
		return
	}
	year, month, active := *req.Year, *req.Month, *req.ActiveLitigation

	if month < 1 || month > 12 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Month must be between 1 and 12."})
		return
	}
	if active < 0 || active > 10 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Active litigation must be between 0 and 10."})
		return
	}

	doc, err := buildLegalMarkdown(year, month, active, strings.TrimSpace(req.ClosedLitigations))
	if err != nil {
		s.logger.Error("viewer: build legal markdown", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not build document"})
		return
	}

	writer := store.Writer{Base: s.cfg.SummaryDir}
	path, err := writer.Write(doc, year, month, "legal_details.md")
	if err != nil {
		s.logger.Error("viewer: write legal details", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not persist document"})
		return
	}

	s.logger.Info("viewer: legal details saved", "path", path, "year", year, "month", month)
	respondJSON(w, http.StatusOK, map[string]string{"path": path})
}

// buildLegalMarkdown renders the monthly legal-details document.
func buildLegalMarkdown(year, month, active int, closed string) ([]byte, error) {
	closedText := closed
	if closedText == "" {
		closedText = "_No closed litigations provided._"
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	md.H1(fmt.Sprintf("Legal Details for %04d-%02d", year, month))
	md.PlainText("")
	md.BulletList(fmt.Sprintf("Active litigations: %d", active))
	md.PlainText("")
	md.H2("Closed Litigations")
	md.PlainText(closedText)
	if err := md.Build(); err != nil {
		return nil, fmt.Errorf("viewer: render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
