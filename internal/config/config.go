package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the shelfwatch pipeline.
type Config struct {
	Storage Storage     `yaml:"storage"`
	Index   IndexConfig `yaml:"index"`
	Server  Server      `yaml:"server"`
	Logging Logging     `yaml:"logging"`
}

// Storage holds the snapshot input root and the index output root.
type Storage struct {
	SnapshotsDir string `yaml:"snapshots_dir"`
	IndexesDir   string `yaml:"indexes_dir"`
}

// IndexConfig controls the history window and deal detection.
type IndexConfig struct {
	// WindowDays is the number of trailing snapshot dates folded into the
	// history index.
	WindowDays int `yaml:"window_days"`

	// DropPct is the minimum percentage drop from the rolling high for a
	// product to qualify as a deal.
	DropPct float64 `yaml:"drop_pct"`

	// CombinedFile is the reserved per-date combined dump filename that the
	// index build always skips (the splitter's input).
	CombinedFile string `yaml:"combined_file"`
}

// Server holds network listener configuration for the index API.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a Config populated with the stock defaults. Load starts
// from this value, so a partial YAML file only overrides what it names.
func Default() *Config {
	return &Config{
		Storage: Storage{
			SnapshotsDir: "snapshots",
			IndexesDir:   "indexes",
		},
		Index: IndexConfig{
			WindowDays:   30,
			DropPct:      15.0,
			CombinedFile: "walmart_all.json",
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML configuration file at the given path, parses it over
// the defaults, and then applies environment variable overrides. A missing
// file is not an error: defaults plus env overrides are returned, so the
// tools work in a bare checkout.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus env overrides.
	default:
		return nil, err
	}

	applyEnvOverrides(cfg)

	if cfg.Index.WindowDays <= 0 {
		return nil, fmt.Errorf("index.window_days must be positive, got %d", cfg.Index.WindowDays)
	}
	if cfg.Index.CombinedFile == "" {
		cfg.Index.CombinedFile = "walmart_all.json"
	}

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SNAPSHOTS_DIR"); v != "" {
		cfg.Storage.SnapshotsDir = v
	}
	if v := os.Getenv("INDEXES_DIR"); v != "" {
		cfg.Storage.IndexesDir = v
	}

	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Index.WindowDays = n
		}
	}
	if v := os.Getenv("DROP_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Index.DropPct = f
		}
	}

	if v := os.Getenv("SHELFWATCH_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SHELFWATCH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Path returns the config file path to load: $SHELFWATCH_CONFIG when set,
// otherwise the conventional config/shelfwatch.yaml.
func Path() string {
	if p := os.Getenv("SHELFWATCH_CONFIG"); p != "" {
		return p
	}
	return "config/shelfwatch.yaml"
}
