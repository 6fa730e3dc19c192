// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Paths        []string `toml:"paths"`
	MetricsAddr  string   `toml:"metrics_addr"`
	OTLPEndpoint string   `toml:"otlp_endpoint"`

	Budget    Budget                      `toml:"budget"`
	Exclude   Exclude                     `toml:"exclude"`
	Languages map[string]LanguageOverride `toml:"languages"`
	Watch     Watch                       `toml:"watch"`
	Output    Output                      `toml:"output"`
	Cache     Cache                       `toml:"cache"`
	Limits    Limits                      `toml:"limits"`
}

type Budget struct {
	Limit int    `toml:"limit"`
	Unit  string `toml:"unit"` // "lines" or "tokens"
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type LanguageOverride struct {
	Enabled    *bool    `toml:"enabled"`
	Extensions []string `toml:"extensions"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	Dir    string `toml:"dir"`
	Report string `toml:"report"`
	Suffix string `toml:"suffix"`
}

type Cache struct {
	Path string `toml:"path"`
}

type Limits struct {
	FilesPerSecond float64 `toml:"files_per_second"`
	MaxHeapMB      int     `toml:"max_heap_mb"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config usable without any file on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Budget.Limit == 0 {
		cfg.Budget.Limit = 80
	}
	if cfg.Budget.Unit == "" {
		cfg.Budget.Unit = "lines"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = ".summarized"
	}
	if cfg.Limits.FilesPerSecond == 0 {
		cfg.Limits.FilesPerSecond = 200
	}
	if cfg.Limits.MaxHeapMB == 0 {
		cfg.Limits.MaxHeapMB = 1024
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "vendor"}
	}
}
