package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRunCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second load reads the file just written.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.URL = "https://calendar.example.com/private/feed.ics"
	cfg.Timezone = "Europe/Berlin"
	cfg.Locale = "en"
	cfg.MaxItems = 4
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestNormalize_FillsDefaults(t *testing.T) {
	c := &Config{Locale: "xx", TailBytes: -1}
	c.Normalize()

	assert.Equal(t, "de", c.Locale)
	assert.Equal(t, DefaultRefreshCron, c.RefreshCron)
	assert.Equal(t, int64(DefaultTailBytes), c.TailBytes)
	assert.Equal(t, DefaultMaxItems, c.MaxItems)
	assert.Equal(t, DefaultHTTPTimeoutSeconds, c.HTTPTimeoutSeconds)
	// URL stays empty: "no source" is a valid state, not a default.
	assert.Empty(t, c.URL)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
