// Package split fans a combined daily dump out into one snapshot file per
// store, stamping each item with its canonical store slug and a capture
// timestamp. It runs before the index build; the build itself never reads
// the combined file.
package split

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"shelfwatch/internal/domain"
	"shelfwatch/internal/identity"
	"shelfwatch/internal/snapshot"
)

// Result summarizes one split run.
type Result struct {
	Items  int
	Stores int
	OutDir string
}

// Split reads the combined dump at inputPath and writes one <slug>.json per
// store next to it. Unlike the index build's lenient reader, a malformed
// container here is a hard failure: the whole file is the unit of work.
func Split(inputPath string) (*Result, error) {
	doc, err := snapshot.LoadStrict(inputPath)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Dir(inputPath)
	fallbackDate := filepath.Base(outDir)
	if !snapshot.IsDate(fallbackDate) {
		fallbackDate = time.Now().UTC().Format("2006-01-02")
	}

	grouped := groupByStore(doc.Items, fallbackDate)

	for slug, items := range grouped {
		path := filepath.Join(outDir, slug+".json")
		if err := writeItems(path, items); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return &Result{Items: len(doc.Items), Stores: len(grouped), OutDir: outDir}, nil
}

// groupByStore buckets items by canonical store slug, writing the slug and a
// backfilled captured_at onto a copy of each item. Unknown fields survive
// untouched.
func groupByStore(items []map[string]any, fallbackDate string) map[string][]map[string]any {
	grouped := make(map[string][]map[string]any)

	for _, raw := range items {
		item := make(map[string]any, len(raw)+2)
		for k, v := range raw {
			item[k] = v
		}

		label := domain.CoerceString(item["store_slug"])
		if label == "" {
			label = domain.CoerceString(item["store"])
		}
		slug := identity.Slugify(label)

		item["store_slug"] = slug
		item["captured_at"] = inferCapturedAt(item, fallbackDate)
		grouped[slug] = append(grouped[slug], item)
	}

	return grouped
}

// inferCapturedAt keeps a non-blank captured_at and otherwise synthesizes
// midnight UTC of the snapshot date.
func inferCapturedAt(item map[string]any, fallbackDate string) string {
	if captured, ok := item["captured_at"].(string); ok && strings.TrimSpace(captured) != "" {
		return captured
	}
	return fallbackDate + "T00:00:00Z"
}

// FindLatestCombined returns the newest <snapshotsDir>/*/<combined> file by
// date-directory order.
func FindLatestCombined(snapshotsDir, combined string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(snapshotsDir, "*", combined))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s/*/%s file found", snapshotsDir, combined)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func writeItems(path string, items []map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return err
	}
	return f.Close()
}
