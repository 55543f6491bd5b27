// Package httpapi serves the built indexes over a small read-only HTTP API.
// It never writes: the index files on disk are the single source of truth
// and each request reads them fresh.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shelfwatch/internal/identity"
	"shelfwatch/internal/index"
	"shelfwatch/internal/snapshot"
)

// Server serves history and deals indexes from an indexes directory.
type Server struct {
	indexesDir string
	log        *slog.Logger
}

// NewServer creates an index API server rooted at indexesDir.
func NewServer(indexesDir string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{indexesDir: indexesDir, log: log}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stores", s.handleStores)
	mux.HandleFunc("GET /api/history/{store}", s.handleHistory)
	mux.HandleFunc("GET /api/deals/dates", s.handleDealDates)
	mux.HandleFunc("GET /api/deals/{date}", s.handleDealStores)
	mux.HandleFunc("GET /api/deals/{date}/{store}", s.handleDeals)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleStores lists the store slugs that have a history index.
func (s *Server) handleStores(w http.ResponseWriter, _ *http.Request) {
	slugs, err := listJSONStems(filepath.Join(s.indexesDir, index.HistorySubdir))
	if err != nil {
		s.log.Error("listing history indexes", "error", err)
		writeError(w, http.StatusInternalServerError, "listing history indexes")
		return
	}
	writeJSON(w, map[string]any{"stores": slugs})
}

// handleHistory serves one store's history index verbatim.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("store")
	if !validSlug(slug) {
		writeError(w, http.StatusBadRequest, "invalid store slug")
		return
	}
	s.serveIndexFile(w, filepath.Join(s.indexesDir, index.HistorySubdir, slug+".json"))
}

// handleDealDates lists the dates that have a deals index.
func (s *Server) handleDealDates(w http.ResponseWriter, _ *http.Request) {
	entries, err := os.ReadDir(filepath.Join(s.indexesDir, index.DealsSubdir))
	if err != nil && !os.IsNotExist(err) {
		s.log.Error("listing deals dates", "error", err)
		writeError(w, http.StatusInternalServerError, "listing deals dates")
		return
	}

	dates := []string{}
	for _, e := range entries {
		if e.IsDir() && snapshot.IsDate(e.Name()) {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	writeJSON(w, map[string]any{"dates": dates})
}

// handleDealStores lists the stores with a deals index for one date.
func (s *Server) handleDealStores(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !snapshot.IsDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	slugs, err := listJSONStems(filepath.Join(s.indexesDir, index.DealsSubdir, date))
	if err != nil {
		s.log.Error("listing deals indexes", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "listing deals indexes")
		return
	}
	writeJSON(w, map[string]any{"date": date, "stores": slugs})
}

// handleDeals serves one (date, store) deals index verbatim.
func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	slug := r.PathValue("store")
	if !snapshot.IsDate(date) || !validSlug(slug) {
		writeError(w, http.StatusBadRequest, "invalid date or store slug")
		return
	}
	s.serveIndexFile(w, filepath.Join(s.indexesDir, index.DealsSubdir, date, slug+".json"))
}

func (s *Server) serveIndexFile(w http.ResponseWriter, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		s.log.Error("reading index file", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "reading index file")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// validSlug accepts only canonical store slugs, which also keeps path
// traversal out of the file lookups.
func validSlug(slug string) bool {
	return slug != "" && identity.Slugify(slug) == slug
}

// listJSONStems returns the sorted .json file stems in dir; a missing dir is
// an empty list.
func listJSONStems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	stems := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			stems = append(stems, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Strings(stems)
	return stems, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
