// Package shelfwatch provides a Go client for the shelfwatch index API.
package shelfwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Wire types mirroring the on-disk index artifacts.

// DayObservation is one slot of an item's history window.
type DayObservation struct {
	Date    string   `json:"date"`
	Price   *float64 `json:"price"`
	InStock bool     `json:"in_stock"`
	Present bool     `json:"present"`
}

// HistoryEntry is one item's accumulated history within a store.
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

// StoreHistory is one store's history index.
type StoreHistory struct {
	StoreSlug string                   `json:"store_slug"`
	UpdatedAt string                   `json:"updated_at"`
	Items     map[string]*HistoryEntry `json:"items"`
}

// DealEntry is one qualifying price drop.
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

// StoreDeals is one store's deals index for one date.
type StoreDeals struct {
	Date      string      `json:"date"`
	StoreSlug string      `json:"store_slug"`
	Deals     []DealEntry `json:"deals"`
}

// Client talks to a shelfwatch-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new index API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Stores lists the store slugs that have a history index.
func (c *Client) Stores(ctx context.Context) ([]string, error) {
	var body struct {
		Stores []string `json:"stores"`
	}
	if err := c.get(ctx, "/api/stores", &body); err != nil {
		return nil, err
	}
	return body.Stores, nil
}

// History retrieves one store's full history index.
func (c *Client) History(ctx context.Context, store string) (*StoreHistory, error) {
	var out StoreHistory
	if err := c.get(ctx, "/api/history/"+store, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DealDates lists the dates that have a deals index.
func (c *Client) DealDates(ctx context.Context) ([]string, error) {
	var body struct {
		Dates []string `json:"dates"`
	}
	if err := c.get(ctx, "/api/deals/dates", &body); err != nil {
		return nil, err
	}
	return body.Dates, nil
}

// DealStores lists the stores with a deals index for the given date.
func (c *Client) DealStores(ctx context.Context, date string) ([]string, error) {
	var body struct {
		Stores []string `json:"stores"`
	}
	if err := c.get(ctx, "/api/deals/"+date, &body); err != nil {
		return nil, err
	}
	return body.Stores, nil
}

// Deals retrieves the deals index for one (date, store) pair.
func (c *Client) Deals(ctx context.Context, date, store string) (*StoreDeals, error) {
	var out StoreDeals
	if err := c.get(ctx, "/api/deals/"+date+"/"+store, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("GET %s: %s (status %d)", path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
