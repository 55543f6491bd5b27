// Package identity derives stable identifiers: item keys for product records
// and canonical slugs for store labels.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"shelfwatch/internal/domain"
)

// FallbackSlug is the reserved store slug for labels that normalize to
// nothing.
const FallbackSlug = "unknown-store"

// URL id extraction patterns, tried in order. An sku survives listing edits,
// so it wins outright; these are the fallback tiers for records without one.
// Precedence matters for URLs carrying several numeric segments: a product
// path id beats any bare digit run, which beats an uppercase token.
var urlIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(?:ip|product)/\S*?(\d{6,})`),
	regexp.MustCompile(`/(\d{8,})`),
	regexp.MustCompile(`/([A-Z0-9]{8,})`),
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ResolveKey derives the store-scoped item key for a record. Total: it
// always returns a value, degrading from sku to url id to a content
// fingerprint over title and image.
func ResolveKey(rec domain.Record) string {
	if rec.SKU != "" {
		return "sku:" + rec.SKU
	}

	if id := ExtractURLID(rec.URL); id != "" {
		return "urlid:" + id
	}

	digest := sha1.Sum([]byte(rec.Title + "|" + rec.Image))
	return "hash:" + hex.EncodeToString(digest[:])[:16]
}

// ExtractURLID pulls a stable identifier out of a product URL, or returns ""
// when none of the patterns match.
func ExtractURLID(url string) string {
	if url == "" {
		return ""
	}
	for _, p := range urlIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// NormalizeStore derives the canonical store slug for a record. The record's
// store_slug field wins, then store, then the per-store filename stem the
// caller passes in; the chosen label is slugified.
func NormalizeStore(rec domain.Record, filenameFallback string) string {
	label := rec.StoreSlug
	if label == "" {
		label = rec.Store
	}
	if label == "" {
		label = filenameFallback
	}
	return Slugify(label)
}

// Slugify lower-cases the label, collapses every maximal run of
// non-alphanumeric characters to a single hyphen, and strips leading and
// trailing hyphens. Labels with nothing left map to FallbackSlug, so a store
// never silently fragments into two index files over cosmetic differences.
func Slugify(label string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(label), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return FallbackSlug
	}
	return slug
}
