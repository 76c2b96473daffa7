package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "LOG_LEVEL", "STORAGE_DRIVER", "STORAGE_DSN", "DATABASE_URL",
		"SEARCH_BASE_URL", "SEARCH_TIMEOUT", "SEARCH_RATE_LIMIT", "SEARCH_RATE_WINDOW",
		"CATALOGUE_URL", "SEARCH_URL", "METRICS_ENABLED", "METRICS_TOKEN", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("search")
	require.NoError(t, err)

	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, ":8084", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 30, cfg.Search.RateLimit)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "inventar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
storage:
  driver: memory
search:
  base_url: http://yaml:8000
  timeout: 3s
metrics_token: from-yaml
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SEARCH_BASE_URL", "http://env:8000")
	t.Setenv("SEARCH_RATE_LIMIT", "5")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load("catalogue")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "http://env:8000", cfg.Search.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 5, cfg.Search.RateLimit)
	assert.Equal(t, "from-yaml", cfg.MetricsToken)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_DatabaseURLFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/inventar")

	cfg, err := Load("catalogue")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/inventar", cfg.Storage.DSN)
}

func TestLoad_BadValues(t *testing.T) {
	cases := map[string][2]string{
		"timeout":        {"SEARCH_TIMEOUT", "soon"},
		"rate limit":     {"SEARCH_RATE_LIMIT", "many"},
		"metrics toggle": {"METRICS_ENABLED", "maybe"},
		"driver":         {"STORAGE_DRIVER", "redis"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load("gateway")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load("gateway")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cfg := Default("catalogue")
	require.NoError(t, cfg.Validate())

	cfg.Storage.DSN = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Storage.Driver = "memory"
	assert.NoError(t, cfg.Validate())

	cfg.Search.RateWindow = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
