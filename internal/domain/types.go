// Package domain defines the core types of the shelfwatch pipeline: raw
// snapshot records, per-day observations, per-store history entries, and
// derived deal entries.
package domain

// Record is one observation of a product on one day, as read from a
// per-store snapshot file. Every field is optional in the source document;
// absent fields decode to their zero value except PriceCurrent, which stays
// nil so that "no price" and "price zero" remain distinct.
type Record struct {
	SKU          string
	URL          string
	Title        string
	Image        string
	StoreSlug    string
	Store        string
	PriceCurrent *float64
	InStock      bool
}

// DayObservation is one slot of an item's history window. Present=false
// means the item did not appear in that day's snapshot; Price is nil and
// InStock false in that case.
type DayObservation struct {
	Date    string   `json:"date"`
	Price   *float64 `json:"price"`
	InStock bool     `json:"in_stock"`
	Present bool     `json:"present"`
}

// HistoryEntry is the accumulated state for one item key within one store.
// Metadata fields hold the last non-empty value seen scanning the window in
// ascending date order. History always covers the full selected window, one
// observation per date, ascending.
type HistoryEntry struct {
	Title    string           `json:"title"`
	URL      string           `json:"url"`
	Image    string           `json:"image"`
	SKU      string           `json:"sku"`
	History  []DayObservation `json:"history"`
	Max30d   *float64         `json:"max_30d"`
	Min30d   *float64         `json:"min_30d"`
	LastSeen string           `json:"last_seen"`
}

// StoreHistory is the history index artifact for one store.
type StoreHistory struct {
	StoreSlug string                   `json:"store_slug"`
	UpdatedAt string                   `json:"updated_at"`
	Items     map[string]*HistoryEntry `json:"items"`
}

// DealEntry is one qualifying price drop for one (store, date) pair.
type DealEntry struct {
	ItemKey    string  `json:"item_key"`
	SKU        string  `json:"sku"`
	Title      string  `json:"title"`
	PriceToday float64 `json:"price_today"`
	Max30d     float64 `json:"max_30d"`
	DropPct    float64 `json:"drop_pct"`
	InStock    bool    `json:"in_stock"`
	URL        string  `json:"url"`
	Image      string  `json:"image"`
}

// StoreDeals is the deals index artifact for one (date, store) pair. Deals
// is never nil so an empty list serializes as [].
type StoreDeals struct {
	Date      string      `json:"date"`
	StoreSlug string      `json:"store_slug"`
	Deals     []DealEntry `json:"deals"`
}
