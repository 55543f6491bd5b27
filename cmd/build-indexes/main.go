// One-shot tool: build per-store history indexes and daily deals indexes
// from the retained snapshot window.
//
// Usage:
//
//	go run cmd/build-indexes/main.go [-days N] [-drop PCT]
package main

import (
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"shelfwatch/internal/config"
	"shelfwatch/internal/deals"
	"shelfwatch/internal/history"
	"shelfwatch/internal/index"
	"shelfwatch/internal/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	days := flag.Int("days", cfg.Index.WindowDays, "number of trailing snapshot dates to include")
	drop := flag.Float64("drop", cfg.Index.DropPct, "drop percentage threshold for deals")
	snapshotsDir := flag.String("snapshots", cfg.Storage.SnapshotsDir, "snapshot root directory")
	indexesDir := flag.String("indexes", cfg.Storage.IndexesDir, "index output directory")
	flag.Parse()

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	b := &history.Builder{Window: *days, Combined: cfg.Index.CombinedFile, Log: logger}
	res, err := b.Build(*snapshotsDir, time.Now())
	if err != nil {
		log.Fatalf("building history: %v", err)
	}

	if len(res.Stores) == 0 {
		slog.Info("no valid snapshots found; nothing to index", "snapshots_dir", *snapshotsDir)
		return
	}

	if err := index.WriteHistory(*indexesDir, res.Stores); err != nil {
		log.Fatalf("writing history indexes: %v", err)
	}

	d := &deals.Detector{Threshold: *drop, Combined: cfg.Index.CombinedFile, Log: logger}
	byStore, err := d.Detect(*snapshotsDir, res.Today, res.Stores)
	if err != nil {
		log.Fatalf("detecting deals: %v", err)
	}
	if err := index.WriteDeals(*indexesDir, res.Today, byStore); err != nil {
		log.Fatalf("writing deals indexes: %v", err)
	}

	slog.Info("index build complete",
		"date", res.Today,
		"window", len(res.Dates),
		"history_stores", len(res.Stores),
		"deal_stores", len(byStore))
}
