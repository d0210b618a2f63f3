package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SITE_SERVER_PORT", "9090")
	t.Setenv("SITE_DATA_BASE", "https://example.org/data/")
	t.Setenv("SITE_DATA_FETCH_TIMEOUT", "3s")
	t.Setenv("SITE_LOGGING_FORMAT", "text")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://example.org/data/", cfg.Data.Base)
	assert.Equal(t, 3*time.Second, cfg.Data.FetchTimeout)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadBarePort(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)

	t.Setenv("SITE_SERVER_PORT", "4000")
	cfg, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
  mode: release
data:
  base: /srv/data
  fetch_timeout: 5s
logging:
  level: debug
`), 0o644))
	t.Setenv("SITE_SERVER_PORT", "7100")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "/srv/data", cfg.Data.Base)
	assert.Equal(t, 5*time.Second, cfg.Data.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "web", cfg.Web.PagesDir)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"SITE_SERVER_PORT":    "70000",
		"SITE_SERVER_MODE":    "loud",
		"SITE_LOGGING_FORMAT": "xml",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadFile("")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := LoadFile("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
