// One-shot tool: split a combined daily dump into one snapshot file per
// store.
//
// Usage:
//
//	go run cmd/split-by-store/main.go [-input snapshots/YYYY-MM-DD/walmart_all.json]
//
// Without -input, the newest combined dump under the snapshot root is used.
package main

import (
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"shelfwatch/internal/config"
	"shelfwatch/internal/split"
	"shelfwatch/internal/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	input := flag.String("input", "", "path to a combined dump (default: latest under the snapshot root)")
	flag.Parse()

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	path := *input
	if path == "" {
		path, err = split.FindLatestCombined(cfg.Storage.SnapshotsDir, cfg.Index.CombinedFile)
		if err != nil {
			log.Fatalf("locating combined dump: %v", err)
		}
	}

	res, err := split.Split(path)
	if err != nil {
		log.Fatalf("splitting %s: %v", path, err)
	}

	slog.Info("split complete", "input", path, "items", res.Items, "stores", res.Stores, "out_dir", res.OutDir)
}
