// Package index persists the derived artifacts: per-store history indexes,
// per-day deals indexes, and a flattened parquet export for analytics.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shelfwatch/internal/domain"
)

// Output subdirectories under the indexes root.
const (
	HistorySubdir = "history_store"
	DealsSubdir   = "deals_daily"
)

// WriteHistory writes one history index file per store under
// <indexesDir>/history_store/<slug>.json. A failed write propagates: a
// silently incomplete index is worse than a failed run.
func WriteHistory(indexesDir string, stores map[string]*domain.StoreHistory) error {
	dir := filepath.Join(indexesDir, HistorySubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	for slug, payload := range stores {
		path := filepath.Join(dir, slug+".json")
		if err := writeJSON(path, payload); err != nil {
			return fmt.Errorf("writing history index for %s: %w", slug, err)
		}
	}
	return nil
}

// WriteDeals writes one deals index file per store under
// <indexesDir>/deals_daily/<date>/<slug>.json.
func WriteDeals(indexesDir, today string, deals map[string]*domain.StoreDeals) error {
	if today == "" || len(deals) == 0 {
		return nil
	}

	dir := filepath.Join(indexesDir, DealsSubdir, today)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	for slug, payload := range deals {
		path := filepath.Join(dir, slug+".json")
		if err := writeJSON(path, payload); err != nil {
			return fmt.Errorf("writing deals index for %s: %w", slug, err)
		}
	}
	return nil
}

// ReadHistory loads every per-store history index under
// <indexesDir>/history_store back into memory, keyed by store slug. Used by
// tools that post-process a finished build, like the parquet export.
func ReadHistory(indexesDir string) (map[string]*domain.StoreHistory, error) {
	dir := filepath.Join(indexesDir, HistorySubdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*domain.StoreHistory{}, nil
		}
		return nil, err
	}

	stores := make(map[string]*domain.StoreHistory)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading history index %s: %w", name, err)
		}
		var payload domain.StoreHistory
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decoding history index %s: %w", name, err)
		}
		stores[strings.TrimSuffix(name, ".json")] = &payload
	}
	return stores, nil
}

// writeJSON writes v as 2-space-indented JSON with a trailing newline,
// keeping non-ASCII and URL characters as-is.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}
