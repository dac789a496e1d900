package suar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suarindonesia/website/internal/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "Suar Indonesia", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "data", cfg.StoreDir)
	assert.Equal(t, store.DefaultName, cfg.StoreName)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RemoteURL)
	assert.True(t, cfg.Client)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Suar Indonesia Staging
url: https://staging.suar.or.id
store:
  dir: /var/lib/suar
remote:
  url: https://db.example.org
  key: anon
content:
  watch: true
cache_ttl: 30s
`), 0o644))
	t.Setenv("SUAR_REMOTE_KEY", "from-env")
	t.Setenv("SUAR_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Suar Indonesia Staging", cfg.Name)
	assert.Equal(t, "https://staging.suar.or.id", cfg.URL)
	assert.Equal(t, "/var/lib/suar", cfg.StoreDir)
	assert.Equal(t, "https://db.example.org", cfg.RemoteURL)
	assert.Equal(t, "from-env", cfg.RemoteKey)
	assert.True(t, cfg.ContentWatch)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SUAR_ADMIN_PASSWORD", "rahasia")
	_, err := LoadConfig("")
	assert.Error(t, err)

	t.Setenv("SUAR_SESSION_SECRET", "0123456789abcdef")
	_, err = LoadConfig("")
	assert.NoError(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionSecret = ""
	a := New(cfg)
	assert.Error(t, a.Setup(t.Context()))
}
