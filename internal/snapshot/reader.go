// Package snapshot reads raw per-store snapshot documents and enumerates the
// dated directory tree they live in.
//
// Two container shapes occur in the wild: a bare JSON array of product
// records, and an object whose "items" field holds that array. Upstream
// producers changed conventions over time, so the index-building path accepts
// both and silently drops anything that is not an object record. The
// splitting and tagging collaborators use the strict loader instead, where a
// malformed container means the whole file cannot be processed.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"shelfwatch/internal/domain"
)

// Document is a strictly loaded snapshot file.
type Document struct {
	// Items holds the record objects, non-object elements removed.
	Items []map[string]any

	// Wrapped is true when the source was an object with an "items" array
	// rather than a bare array.
	Wrapped bool

	// Container is the original top-level object when Wrapped, so rewrites
	// can preserve sibling fields. Nil for bare arrays.
	Container map[string]any
}

// Load reads a snapshot file leniently: both container shapes are accepted,
// non-record elements are dropped, and an unsupported top-level shape yields
// an empty slice with no error. Only an unreadable or undecodable file
// returns an error; callers in the index-building path log it and move on.
func Load(path string) ([]map[string]any, error) {
	doc, err := decode(path)
	if err != nil {
		return nil, err
	}
	items, _, _ := extractItems(doc)
	return items, nil
}

// LoadStrict reads a snapshot file and fails on anything but the two
// supported container shapes.
func LoadStrict(path string) (*Document, error) {
	doc, err := decode(path)
	if err != nil {
		return nil, err
	}
	items, wrapped, ok := extractItems(doc)
	if !ok {
		return nil, fmt.Errorf("unsupported JSON format in %s", path)
	}
	d := &Document{Items: items, Wrapped: wrapped}
	if wrapped {
		d.Container = doc.(map[string]any)
	}
	return d, nil
}

func decode(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

// extractItems pulls the record objects out of a decoded document. ok is
// false when the top-level shape is neither an array nor an object with an
// "items" array.
func extractItems(doc any) (items []map[string]any, wrapped, ok bool) {
	switch d := doc.(type) {
	case []any:
		return filterObjects(d), false, true
	case map[string]any:
		if inner, isList := d["items"].([]any); isList {
			return filterObjects(inner), true, true
		}
	}
	return nil, false, false
}

func filterObjects(elems []any) []map[string]any {
	items := make([]map[string]any, 0, len(elems))
	for _, e := range elems {
		if m, isObj := e.(map[string]any); isObj {
			items = append(items, m)
		}
	}
	return items
}

// DecodeRecord coerces one dynamic record object into the typed domain
// record. Every coercion is total: wrong-typed fields degrade to absent.
func DecodeRecord(m map[string]any) domain.Record {
	return domain.Record{
		SKU:          domain.CoerceString(m["sku"]),
		URL:          domain.CoerceString(m["url"]),
		Title:        domain.CoerceString(m["title"]),
		Image:        domain.CoerceString(m["image"]),
		StoreSlug:    domain.CoerceString(m["store_slug"]),
		Store:        domain.CoerceString(m["store"]),
		PriceCurrent: domain.ParsePrice(m["price_current"]),
		InStock:      domain.CoerceBool(m["in_stock"]),
	}
}
