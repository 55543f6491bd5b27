// Package history folds a trailing window of dated snapshot directories into
// per-store, per-item price history with rolling aggregates.
package history

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"shelfwatch/internal/domain"
	"shelfwatch/internal/identity"
	"shelfwatch/internal/snapshot"
)

// Builder configures a history build.
type Builder struct {
	// Window is the number of trailing snapshot dates to fold.
	Window int

	// Combined is the reserved combined dump filename skipped in every date
	// directory.
	Combined string

	Log *slog.Logger
}

// Result is the outcome of one build.
type Result struct {
	// Stores maps store slug to that store's history index. Empty when no
	// dated snapshot directory exists.
	Stores map[string]*domain.StoreHistory

	// Dates is the selected window, ascending.
	Dates []string

	// Today is the last selected date, the reference date for deal
	// detection. Empty for a zero-result run.
	Today string
}

// entryAcc accumulates one item's state during the fold. Observations are
// keyed by date and densified to the full window at finalize time.
type entryAcc struct {
	title    string
	url      string
	image    string
	sku      string
	lastSeen string
	obs      map[string]domain.DayObservation
}

// Build runs the fold over snapshotsDir. The now argument feeds only the
// updated_at stamp, one shared value for every store in the run. A root with
// no parseable dated directories yields an empty Result and no error.
func (b *Builder) Build(snapshotsDir string, now time.Time) (*Result, error) {
	log := b.Log
	if log == nil {
		log = slog.Default()
	}

	dates, err := snapshot.ListDates(snapshotsDir)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot dates: %w", err)
	}

	selected := snapshot.SelectWindow(dates, b.Window)
	result := &Result{Stores: make(map[string]*domain.StoreHistory), Dates: selected}
	if len(selected) == 0 {
		return result, nil
	}
	result.Today = selected[len(selected)-1]

	stores := make(map[string]map[string]*entryAcc)

	for _, date := range selected {
		files, err := snapshot.ListStoreFiles(filepath.Join(snapshotsDir, date), b.Combined)
		if err != nil {
			return nil, fmt.Errorf("listing store files for %s: %w", date, err)
		}

		for _, file := range files {
			items, err := snapshot.Load(file)
			if err != nil {
				// One bad file must not fail the run; the store simply
				// contributes nothing that day.
				log.Warn("skipping unreadable snapshot file", "file", file, "error", err)
				continue
			}
			stem := snapshot.Stem(file)

			for _, m := range items {
				rec := snapshot.DecodeRecord(m)
				foldRecord(stores, rec, stem, date)
			}
		}
	}

	updatedAt := now.UTC().Format(time.RFC3339)
	for slug, entries := range stores {
		result.Stores[slug] = finalizeStore(slug, updatedAt, selected, entries)
	}

	return result, nil
}

// foldRecord upserts one record into the aggregation state.
func foldRecord(stores map[string]map[string]*entryAcc, rec domain.Record, stem, date string) {
	slug := identity.NormalizeStore(rec, stem)
	entries, ok := stores[slug]
	if !ok {
		entries = make(map[string]*entryAcc)
		stores[slug] = entries
	}

	key := identity.ResolveKey(rec)
	acc, ok := entries[key]
	if !ok {
		acc = &entryAcc{obs: make(map[string]domain.DayObservation)}
		entries[key] = acc
	}

	// The fold runs in ascending date order, so a plain assignment keeps the
	// latest observation for the date and the latest non-empty metadata.
	acc.obs[date] = domain.DayObservation{
		Date:    date,
		Price:   rec.PriceCurrent,
		InStock: rec.InStock,
		Present: true,
	}
	acc.lastSeen = date

	if rec.Title != "" {
		acc.title = rec.Title
	}
	if rec.URL != "" {
		acc.url = rec.URL
	}
	if rec.Image != "" {
		acc.image = rec.Image
	}
	if rec.SKU != "" {
		acc.sku = rec.SKU
	}
}

// finalizeStore densifies every entry to one observation per window date and
// computes the rolling extrema over present, priced observations.
func finalizeStore(slug, updatedAt string, window []string, entries map[string]*entryAcc) *domain.StoreHistory {
	items := make(map[string]*domain.HistoryEntry, len(entries))

	for key, acc := range entries {
		entry := &domain.HistoryEntry{
			Title:    acc.title,
			URL:      acc.url,
			Image:    acc.image,
			SKU:      acc.sku,
			History:  make([]domain.DayObservation, 0, len(window)),
			LastSeen: acc.lastSeen,
		}

		for _, date := range window {
			o, seen := acc.obs[date]
			if !seen {
				o = domain.DayObservation{Date: date}
			}
			entry.History = append(entry.History, o)

			if o.Present && o.Price != nil {
				if entry.Max30d == nil || *o.Price > *entry.Max30d {
					v := *o.Price
					entry.Max30d = &v
				}
				if entry.Min30d == nil || *o.Price < *entry.Min30d {
					v := *o.Price
					entry.Min30d = &v
				}
			}
		}

		items[key] = entry
	}

	return &domain.StoreHistory{
		StoreSlug: slug,
		UpdatedAt: updatedAt,
		Items:     items,
	}
}
