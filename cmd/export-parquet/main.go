// One-shot tool: flatten the built history indexes into a parquet file for
// analytics.
//
// Usage:
//
//	go run cmd/export-parquet/main.go [-indexes indexes]
package main

import (
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"shelfwatch/internal/config"
	"shelfwatch/internal/index"
	"shelfwatch/internal/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	indexesDir := flag.String("indexes", cfg.Storage.IndexesDir, "index root directory")
	flag.Parse()

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	stores, err := index.ReadHistory(*indexesDir)
	if err != nil {
		log.Fatalf("reading history indexes: %v", err)
	}
	if len(stores) == 0 {
		slog.Info("no history indexes found; nothing to export", "indexes_dir", *indexesDir)
		return
	}

	rows, err := index.ExportObservations(*indexesDir, stores)
	if err != nil {
		log.Fatalf("exporting observations: %v", err)
	}

	slog.Info("parquet export complete", "stores", len(stores), "rows", rows)
}
