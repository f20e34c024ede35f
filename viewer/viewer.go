// Package viewer serves the report viewer API: listing captured periods,
// delivering stored artifacts, and accepting monthly legal-detail
// submissions from homeowners.
package viewer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazyhaar/finreport/store"
)

const httpShutdownTimeout = 5 * time.Second

// Config configures the viewer server.
type Config struct {
	// SummaryDir is where legal_details.md files are written, keyed by period.
	SummaryDir string

	// SnapshotDir is the artifact root served under /files/.
	SnapshotDir string

	// User and PasswordHash enable bcrypt-checked Basic Auth when the hash
	// is non-empty.
	User         string
	PasswordHash string

	Logger *slog.Logger
}

// Server is the viewer HTTP server.
type Server struct {
	cfg       Config
	index     *store.Index
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// New creates a viewer Server. index may be nil; /api/periods then reports
// an empty list.
func New(cfg Config, index *store.Index) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		index:     index,
		sanitizer: bluemonday.UGCPolicy().AllowElements("table", "thead", "tbody", "tr", "th", "td"),
		logger:    logger,
	}
}

// Router builds the chi router for the viewer.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Options("/api/*", func(w http.ResponseWriter, _ *http.Request) {
		setCORS(w)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		if s.cfg.PasswordHash != "" {
			r.Use(s.basicAuth)
		}

		r.Post("/api/legal-details", s.handleLegalDetails)
		r.Get("/api/periods", s.handlePeriods)
		r.Get("/files/*", s.handleFile)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if s.index == nil {
		respondJSON(w, http.StatusOK, []store.PeriodEntry{})
		return
	}
	entries, err := s.index.ListPeriods(r.Context())
	if err != nil {
		s.logger.Error("viewer: list periods", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "index unavailable"})
		return
	}
	if entries == nil {
		entries = []store.PeriodEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleFile serves snapshot artifacts. HTML artifacts are sanitized before
// delivery so captured portal markup never ships scripts to the viewer.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	rel := chi.URLParam(r, "*")

	clean := filepath.Clean("/" + rel)
	path := filepath.Join(s.cfg.SnapshotDir, clean)
	if !strings.HasPrefix(path, filepath.Clean(s.cfg.SnapshotDir)+string(os.PathSeparator)) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid path"})
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "artifact not found"})
		return
	}

	switch filepath.Ext(path) {
	case ".html", ".htm":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(s.sanitizer.SanitizeBytes(data))
	case ".json":
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
	}
}

// basicAuth guards the API with a bcrypt-checked Basic Auth password.
func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.cfg.User ||
			bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="finreport"`)
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("viewer: serving", "addr", addr, "data", s.cfg.SnapshotDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
