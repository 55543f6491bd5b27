// Package deals derives the per-store daily deals index from the latest
// snapshots and the just-built history index.
package deals

import (
	"log/slog"
	"math"
	"path/filepath"
	"sort"

	"shelfwatch/internal/domain"
	"shelfwatch/internal/identity"
	"shelfwatch/internal/snapshot"
)

// Detector configures deal detection.
type Detector struct {
	// Threshold is the minimum drop percentage from the rolling high.
	Threshold float64

	// Combined is the reserved combined dump filename to skip.
	Combined string

	Log *slog.Logger
}

// Detect scans today's per-store snapshot files against the history index
// and returns one StoreDeals per store encountered, possibly with an empty
// deal list. The history index is read only, never mutated. An empty today
// (zero-result build) yields an empty map.
func (d *Detector) Detect(snapshotsDir, today string, stores map[string]*domain.StoreHistory) (map[string]*domain.StoreDeals, error) {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	out := make(map[string]*domain.StoreDeals)
	if today == "" {
		return out, nil
	}

	files, err := snapshot.ListStoreFiles(filepath.Join(snapshotsDir, today), d.Combined)
	if err != nil {
		return nil, err
	}

	bucket := func(slug string) *domain.StoreDeals {
		sd, ok := out[slug]
		if !ok {
			sd = &domain.StoreDeals{Date: today, StoreSlug: slug, Deals: []domain.DealEntry{}}
			out[slug] = sd
		}
		return sd
	}

	for _, file := range files {
		stem := snapshot.Stem(file)

		items, err := snapshot.Load(file)
		if err != nil {
			log.Warn("skipping unreadable snapshot file", "file", file, "error", err)
			items = nil
		}
		if len(items) == 0 {
			// The store still gets an (empty) deals document for the day.
			bucket(identity.Slugify(stem))
			continue
		}

		for _, m := range items {
			rec := snapshot.DecodeRecord(m)
			slug := identity.NormalizeStore(rec, stem)
			sd := bucket(slug)

			entry := d.evaluate(rec, stores[slug])
			if entry != nil {
				sd.Deals = append(sd.Deals, *entry)
			}
		}
	}

	for _, sd := range out {
		// Stable: ties keep encounter order.
		sort.SliceStable(sd.Deals, func(i, j int) bool {
			return sd.Deals[i].DropPct > sd.Deals[j].DropPct
		})
	}

	return out, nil
}

// evaluate returns the deal entry for a record, or nil when it does not
// qualify.
func (d *Detector) evaluate(rec domain.Record, hist *domain.StoreHistory) *domain.DealEntry {
	if hist == nil {
		return nil
	}

	key := identity.ResolveKey(rec)
	entry := hist.Items[key]
	if entry == nil {
		// Never seen before today: no rolling high to drop from.
		return nil
	}

	// Guards: out of stock, unpriced today, and a nil or non-positive
	// rolling high (divide-by-zero, all-missing history).
	if !rec.InStock || rec.PriceCurrent == nil {
		return nil
	}
	if entry.Max30d == nil || *entry.Max30d <= 0 {
		return nil
	}

	priceToday := *rec.PriceCurrent
	max30d := *entry.Max30d
	dropPct := math.Round((max30d-priceToday)/max30d*100*100) / 100
	if dropPct < d.Threshold {
		return nil
	}

	return &domain.DealEntry{
		ItemKey:    key,
		SKU:        rec.SKU,
		Title:      rec.Title,
		PriceToday: priceToday,
		Max30d:     max30d,
		DropPct:    dropPct,
		InStock:    rec.InStock,
		URL:        rec.URL,
		Image:      rec.Image,
	}
}
