// shelfwatch-server serves the built indexes over a read-only HTTP API.
//
// Usage:
//
//	go run cmd/shelfwatch-server/main.go
package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"shelfwatch/internal/config"
	"shelfwatch/internal/httpapi"
	"shelfwatch/internal/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	srv := httpapi.NewServer(cfg.Storage.IndexesDir, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	slog.Info("shelfwatch index API listening", "addr", addr, "indexes_dir", cfg.Storage.IndexesDir)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
