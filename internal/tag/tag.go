// Package tag backfills store metadata onto snapshot items that lack it,
// rewriting the file in place while preserving its container shape.
package tag

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"shelfwatch/internal/snapshot"
)

// StoreMeta is the metadata stamped onto every item.
type StoreMeta struct {
	StoreSlug string
	StoreName string
	City      string
	Province  string
}

// Tag stamps meta onto every item in the snapshot file at path. With
// ifMissingOnly set, a file where any item already carries a non-blank
// store_slug is left untouched and skipped reports true. Like the splitter,
// an unsupported container shape is a hard failure.
func Tag(path string, meta StoreMeta, ifMissingOnly bool) (updated int, skipped bool, err error) {
	doc, err := snapshot.LoadStrict(path)
	if err != nil {
		return 0, false, err
	}

	if ifMissingOnly && hasStoreSlug(doc.Items) {
		return 0, true, nil
	}

	for _, item := range doc.Items {
		item["store_slug"] = meta.StoreSlug
		item["store_name"] = meta.StoreName
		item["city"] = meta.City
		item["province"] = meta.Province
		updated++
	}

	if err := rewrite(path, doc); err != nil {
		return 0, false, fmt.Errorf("rewriting %s: %w", path, err)
	}
	return updated, false, nil
}

func hasStoreSlug(items []map[string]any) bool {
	for _, item := range items {
		if slug, ok := item["store_slug"].(string); ok && strings.TrimSpace(slug) != "" {
			return true
		}
	}
	return false
}

// rewrite writes the document back in its original container shape. For a
// wrapped document the tagged items replace the original "items" array;
// sibling container fields are preserved.
func rewrite(path string, doc *snapshot.Document) error {
	var payload any
	if doc.Wrapped {
		doc.Container["items"] = doc.Items
		payload = doc.Container
	} else {
		payload = doc.Items
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	return f.Close()
}
