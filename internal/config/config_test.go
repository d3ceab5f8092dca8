package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://archive-api.open-meteo.com/v1", cfg.Archive.BaseURL)
	assert.Equal(t, "auto", cfg.Archive.Timezone)
	assert.Equal(t, 0, cfg.Cache.TTL)
	assert.Equal(t, "52.52", cfg.Dashboard.DefaultLatitude)
	assert.Equal(t, 10, cfg.Dashboard.RowsPerPage)
	assert.Equal(t, []int{10, 20, 50}, cfg.Dashboard.AllowedRowsPerPage)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9000
archive:
  base_url: http://localhost:1234/v1
cache:
  ttl: 300
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("WDB_SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "http://localhost:1234/v1", cfg.Archive.BaseURL)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "2024-12-23", cfg.Dashboard.DefaultEndDate)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSetGetConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Environment = "test"
	SetConfig(cfg)

	assert.Same(t, cfg, GetConfig())
}
