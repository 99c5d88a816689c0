package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix         = "REELFEED_"
	ConfigPathEnvVar  = "REELFEED_CONFIG"
	DefaultConfigFile = "reelfeed.yaml"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	API   APIConfig   `koanf:"api"`
	Feed  FeedConfig  `koanf:"feed"`
	Input InputConfig `koanf:"input"`
	Grid  GridConfig  `koanf:"grid"`
	DB    DBConfig    `koanf:"db"`
	Log   LogConfig   `koanf:"log"`
	// Demo serves a built-in catalogue instead of calling the API.
	Demo bool `koanf:"demo"`
}

type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

type FeedConfig struct {
	PageSize          int      `koanf:"page_size"`
	Categories        []string `koanf:"categories"`
	PrefetchThreshold int      `koanf:"prefetch_threshold"`
	PreloadAhead      int      `koanf:"preload_ahead"`
}

type InputConfig struct {
	Debounce     time.Duration `koanf:"debounce"`
	SwipeMinRows int           `koanf:"swipe_min_rows"`
}

type GridConfig struct {
	// Breakpoints are ascending terminal widths. Each one crossed adds a column.
	Breakpoints []int `koanf:"breakpoints"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

func Default() Config {
	return Config{
		API: APIConfig{Timeout: 10 * time.Second},
		Feed: FeedConfig{
			PageSize:          20,
			Categories:        []string{"for-you", "music", "sports"},
			PrefetchThreshold: 2,
			PreloadAhead:      1,
		},
		Input: InputConfig{Debounce: 350 * time.Millisecond, SwipeMinRows: 3},
		Grid:  GridConfig{Breakpoints: []int{80, 120, 160}},
		DB:    DBConfig{Path: "reelfeed.db"},
		Log:   LogConfig{Level: "info", Format: "json", File: "reelfeed.log"},
	}
}

// Load layers defaults, the YAML file at path (or REELFEED_CONFIG, or
// ./reelfeed.yaml when present) and REELFEED_* environment variables.
// Overrides, typically command line flags, run last, before validation.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv(ConfigPathEnvVar)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := splitLists(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	for _, override := range overrides {
		override(&cfg)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps REELFEED_FEED_PAGE_SIZE to feed.page_size. The first segment
// after the prefix names the section.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if s == "config" {
		return ""
	}
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + rest
}

var listKeys = []string{"feed.categories", "grid.breakpoints"}

// splitLists turns comma separated env values into lists. Values from YAML
// are already lists and are left alone.
func splitLists(k *koanf.Koanf) error {
	for _, key := range listKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if !c.Demo && c.API.BaseURL == "" {
		return errors.New("api.base_url is required (or set demo)")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive: %s", c.API.Timeout)
	}
	if c.Feed.PageSize < 1 || c.Feed.PageSize > 100 {
		return fmt.Errorf("feed.page_size must be between 1 and 100: %d", c.Feed.PageSize)
	}
	if len(c.Feed.Categories) == 0 {
		return errors.New("feed.categories must not be empty")
	}
	if c.Feed.PrefetchThreshold < 0 {
		return fmt.Errorf("feed.prefetch_threshold must not be negative: %d", c.Feed.PrefetchThreshold)
	}
	if c.Feed.PreloadAhead < 0 {
		return fmt.Errorf("feed.preload_ahead must not be negative: %d", c.Feed.PreloadAhead)
	}
	if c.Input.Debounce < 0 {
		return fmt.Errorf("input.debounce must not be negative: %s", c.Input.Debounce)
	}
	if c.Input.SwipeMinRows < 1 {
		return fmt.Errorf("input.swipe_min_rows must be at least 1: %d", c.Input.SwipeMinRows)
	}
	if !slices.IsSorted(c.Grid.Breakpoints) {
		return fmt.Errorf("grid.breakpoints must be ascending: %v", c.Grid.Breakpoints)
	}
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console: %s", c.Log.Format)
	}
	return nil
}

// Columns returns the grid column count for a terminal width.
func (g GridConfig) Columns(width int) int {
	n := 1
	for _, bp := range g.Breakpoints {
		if width >= bp {
			n++
		}
	}
	return n
}
