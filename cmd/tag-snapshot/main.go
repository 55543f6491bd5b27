// One-shot tool: tag snapshot items with store metadata when missing.
//
// Usage:
//
//	go run cmd/tag-snapshot/main.go -file snapshots/2024-01-03/store-12.json \
//	  -store-slug store-12 -store-name "Store 12" -city Vancouver -province BC \
//	  [-if-missing-only]
package main

import (
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"shelfwatch/internal/config"
	"shelfwatch/internal/tag"
	"shelfwatch/internal/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	file := flag.String("file", "", "path to the snapshot JSON file (required)")
	storeSlug := flag.String("store-slug", "", "canonical store slug (required)")
	storeName := flag.String("store-name", "", "display store name (required)")
	city := flag.String("city", "", "store city (required)")
	province := flag.String("province", "", "store province (required)")
	ifMissingOnly := flag.Bool("if-missing-only", false, "only tag when no item has a store_slug yet")
	flag.Parse()

	if *file == "" || *storeSlug == "" || *storeName == "" || *city == "" || *province == "" {
		flag.Usage()
		log.Fatal("all of -file, -store-slug, -store-name, -city, -province are required")
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	meta := tag.StoreMeta{
		StoreSlug: *storeSlug,
		StoreName: *storeName,
		City:      *city,
		Province:  *province,
	}

	updated, skipped, err := tag.Tag(*file, meta, *ifMissingOnly)
	if err != nil {
		log.Fatalf("tagging %s: %v", *file, err)
	}

	if skipped {
		slog.Info("skipped: store_slug already present", "file", *file)
		return
	}
	slog.Info("tagging complete", "file", *file, "updated", updated)
}
