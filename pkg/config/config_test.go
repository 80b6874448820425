package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "videos", cfg.Download.OutputDir)
	assert.Equal(t, 2*time.Second, cfg.Download.ItemDelay)
	assert.Equal(t, 30*time.Second, cfg.Download.DownloadTimeout)
	assert.Equal(t, 0, cfg.Download.MaxItems)
	assert.False(t, cfg.Download.WriteCaptions)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 3, cfg.RateLimit.MaxRetries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.HasCredentials())

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REELDL_SESSION_ID", "env-session")
	t.Setenv("REELDL_CSRF_TOKEN", "env-csrf")
	t.Setenv("REELDL_OUTPUT_DIR", "/tmp/reels")
	t.Setenv("REELDL_ITEM_DELAY", "5s")
	t.Setenv("REELDL_MAX_ITEMS", "10")
	t.Setenv("REELDL_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-session", cfg.Instagram.SessionID)
	assert.Equal(t, "env-csrf", cfg.Instagram.CSRFToken)
	assert.Equal(t, "/tmp/reels", cfg.Download.OutputDir)
	assert.Equal(t, 5*time.Second, cfg.Download.ItemDelay)
	assert.Equal(t, 10, cfg.Download.MaxItems)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.HasCredentials())
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("REELDL_ITEM_DELAY", "not-a-duration")
	t.Setenv("REELDL_MAX_ITEMS", "-5")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 2*time.Second, cfg.Download.ItemDelay)
	assert.Equal(t, 0, cfg.Download.MaxItems)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
download:
  output_dir: "myreels"
  item_delay: 3s
  max_items: 25
  write_captions: true
rate_limit:
  requests_per_minute: 30
logging:
  level: "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "myreels", cfg.Download.OutputDir)
	assert.Equal(t, 3*time.Second, cfg.Download.ItemDelay)
	assert.Equal(t, 25, cfg.Download.MaxItems)
	assert.True(t, cfg.Download.WriteCaptions)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Unset fields keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Download.DownloadTimeout)
}

func TestLoadFromFileMissingPathIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download: [not: valid"), 0644))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":    "flagdir",
		"delay":     time.Second,
		"max-items": 7,
		"captions":  true,
		"log-level": "debug",
	})

	assert.Equal(t, "flagdir", cfg.Download.OutputDir)
	assert.Equal(t, time.Second, cfg.Download.ItemDelay)
	assert.Equal(t, 7, cfg.Download.MaxItems)
	assert.True(t, cfg.Download.WriteCaptions)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestFlagsOverrideEnvAndFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REELDL_OUTPUT_DIR", "envdir")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  output_dir: filedir\n"), 0644))

	cfg, err := Load(path, map[string]interface{}{"output": "flagdir"})
	require.NoError(t, err)

	assert.Equal(t, "flagdir", cfg.Download.OutputDir)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REELDL_OUTPUT_DIR", "envdir")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  output_dir: filedir\n"), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "envdir", cfg.Download.OutputDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty output dir", func(c *Config) { c.Download.OutputDir = "" }, true},
		{"negative delay", func(c *Config) { c.Download.ItemDelay = -time.Second }, true},
		{"zero timeout", func(c *Config) { c.Download.DownloadTimeout = 0 }, true},
		{"negative max items", func(c *Config) { c.Download.MaxItems = -1 }, true},
		{"zero requests per minute", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, true},
		{"negative max retries", func(c *Config) { c.RateLimit.MaxRetries = -1 }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"session id without csrf token", func(c *Config) { c.Instagram.SessionID = "x" }, true},
		{"csrf token without session id", func(c *Config) { c.Instagram.CSRFToken = "x" }, true},
		{"both credentials set", func(c *Config) {
			c.Instagram.SessionID = "x"
			c.Instagram.CSRFToken = "y"
		}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(cfg)

			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Download.OutputDir = "saved"
	cfg.Download.MaxItems = 42
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))

	assert.Equal(t, "saved", reloaded.Download.OutputDir)
	assert.Equal(t, 42, reloaded.Download.MaxItems)
}
