package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty directory with no REELFEED_ variables
// inherited from the host.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	return dir
}

func TestLoad_UsesDefaultsInDemoMode(t *testing.T) {
	isolate(t)
	t.Setenv("REELFEED_DEMO", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Demo)
	require.Equal(t, 20, cfg.Feed.PageSize)
	require.Equal(t, []string{"for-you", "music", "sports"}, cfg.Feed.Categories)
	require.Equal(t, 350*time.Millisecond, cfg.Input.Debounce)
	require.Equal(t, "reelfeed.db", cfg.DB.Path)
	require.Equal(t, "reelfeed.log", cfg.Log.File)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	isolate(t)

	_, err := Load("")
	require.ErrorContains(t, err, "api.base_url")
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://feed.example.com/v1/
  timeout: 3s
feed:
  page_size: 12
  categories: [news, art]
input:
  debounce: 200ms
`), 0o600))
	t.Setenv("REELFEED_FEED_PAGE_SIZE", "30")
	t.Setenv("REELFEED_GRID_BREAKPOINTS", "70, 110")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://feed.example.com/v1", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, 30, cfg.Feed.PageSize)
	require.Equal(t, []string{"news", "art"}, cfg.Feed.Categories)
	require.Equal(t, 200*time.Millisecond, cfg.Input.Debounce)
	require.Equal(t, []int{70, 110}, cfg.Grid.Breakpoints)
}

func TestLoad_OverridesRunBeforeValidation(t *testing.T) {
	isolate(t)

	cfg, err := Load("", func(c *Config) { c.Demo = true })
	require.NoError(t, err)
	require.True(t, cfg.Demo)

	_, err = Load("", func(c *Config) { c.Demo = true; c.Feed.PageSize = 0 })
	require.ErrorContains(t, err, "feed.page_size")
}

func TestLoad_ConfigPathFromEnvironment(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo: true\nlog:\n  level: debug\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Demo)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"page size too large", func(c *Config) { c.Feed.PageSize = 101 }, "feed.page_size"},
		{"page size zero", func(c *Config) { c.Feed.PageSize = 0 }, "feed.page_size"},
		{"no categories", func(c *Config) { c.Feed.Categories = nil }, "feed.categories"},
		{"unsorted breakpoints", func(c *Config) { c.Grid.Breakpoints = []int{120, 80} }, "grid.breakpoints"},
		{"swipe rows", func(c *Config) { c.Input.SwipeMinRows = 0 }, "input.swipe_min_rows"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"db path", func(c *Config) { c.DB.Path = "" }, "db.path"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Demo = true
			tc.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tc.errMsg)
		})
	}

	cfg := Default()
	cfg.API.BaseURL = "https://feed.example.com"
	require.NoError(t, cfg.Validate())
}

func TestGridColumns(t *testing.T) {
	g := GridConfig{Breakpoints: []int{80, 120, 160}}
	require.Equal(t, 1, g.Columns(40))
	require.Equal(t, 2, g.Columns(80))
	require.Equal(t, 3, g.Columns(159))
	require.Equal(t, 4, g.Columns(200))
	require.Equal(t, 1, GridConfig{}.Columns(300))
}
