package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"

	"shelfwatch/internal/domain"
)

// ObservationRow is the parquet schema for the flattened history export: one
// row per present observation of one item in one store.
type ObservationRow struct {
	StoreSlug string   `parquet:"store_slug"`
	ItemKey   string   `parquet:"item_key"`
	SKU       string   `parquet:"sku"`
	Title     string   `parquet:"title"`
	Date      string   `parquet:"date"`
	Price     *float64 `parquet:"price,optional"`
	InStock   bool     `parquet:"in_stock"`
}

// ExportObservations flattens every present observation in the history index
// into <indexesDir>/analytics/observations.parquet and returns the row
// count. Rows are sorted by (store, item key, date) so repeat exports over
// the same input are byte-identical.
func ExportObservations(indexesDir string, stores map[string]*domain.StoreHistory) (int, error) {
	var rows []ObservationRow
	for slug, store := range stores {
		for key, entry := range store.Items {
			for _, o := range entry.History {
				if !o.Present {
					continue
				}
				rows = append(rows, ObservationRow{
					StoreSlug: slug,
					ItemKey:   key,
					SKU:       entry.SKU,
					Title:     entry.Title,
					Date:      o.Date,
					Price:     o.Price,
					InStock:   o.InStock,
				})
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.StoreSlug != b.StoreSlug {
			return a.StoreSlug < b.StoreSlug
		}
		if a.ItemKey != b.ItemKey {
			return a.ItemKey < b.ItemKey
		}
		return a.Date < b.Date
	})

	path := filepath.Join(indexesDir, "analytics", "observations.parquet")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating analytics dir: %w", err)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(rows), nil
}

// ReadObservations loads a previously exported observations file; used by
// tests and downstream analysis tools.
func ReadObservations(indexesDir string) ([]ObservationRow, error) {
	path := filepath.Join(indexesDir, "analytics", "observations.parquet")
	return parquet.ReadFile[ObservationRow](path)
}
