package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  url: http://localhost:9000/NORAD/elements/gp.php?GROUP=active&FORMAT=json
  recency_window_days: 7
space_objects:
  base_url: http://localhost:9000/
request_timeout: 2s
response_time_ceiling: 1500ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/NORAD/elements/gp.php?GROUP=active&FORMAT=json", cfg.Catalog.URL)
	assert.Equal(t, 7, cfg.Catalog.RecencyWindowDays)
	assert.Equal(t, "http://localhost:9000/api/space-objects", cfg.SpaceObjectsURL())
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.ResponseTimeCeiling)
	assert.Equal(t, Default().SpaceObjects.AllowedObjectTypes, cfg.SpaceObjects.AllowedObjectTypes)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
catalog:
  url: not-a-url
  recency_window_days: 0
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.url")
	assert.Contains(t, err.Error(), "recency_window_days")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWithBaseURL(t *testing.T) {
	cfg, err := Default().WithBaseURL("http://127.0.0.1:8123")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8123/NORAD/elements/gp.php?GROUP=last-30-days&FORMAT=json", cfg.Catalog.URL)
	assert.Equal(t, "http://127.0.0.1:8123/api/space-objects", cfg.SpaceObjectsURL())
	assert.Equal(t, DefaultCatalogURL, Default().Catalog.URL, "defaults are not modified")
}
