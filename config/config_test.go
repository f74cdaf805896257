package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theplant/staymarket/filter"
)

const sampleYAML = `
http:
  addr: ":9090"
  read-timeout: 5s
  rate-limit: 20
  rate-burst: 40
database:
  dsn: "postgres://staymarket@localhost/staymarket"
  log-level: info
filter:
  strict: true
  limits: relaxed
pagination:
  default-per-page: 20
  max-per-page: 50
`

func TestParse(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse([]byte(sampleYAML), cfg))

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 20.0, cfg.HTTP.RateLimit)
	assert.Equal(t, 40, cfg.HTTP.RateBurst)
	assert.Equal(t, "postgres://staymarket@localhost/staymarket", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Database.LogLevel)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.True(t, cfg.Filter.Strict)
	assert.Equal(t, filter.RelaxedLimits, cfg.Filter.FilterLimits())
	assert.Equal(t, PaginationConfig{DefaultPerPage: 20, MaxPerPage: 50}, cfg.Pagination)
	require.NoError(t, Validate(cfg))
}

func TestExampleFile(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "staymarket.example.yaml"))
	require.NoError(t, err)

	cfg := Default()
	require.NoError(t, Parse(raw, cfg))
	require.NoError(t, Validate(cfg))
	assert.Equal(t, filter.DefaultLimits, cfg.Filter.FilterLimits())
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	err := Parse([]byte("http:\n  port: 80\n"), Default())
	require.ErrorContains(t, err, "parse config file")
	require.ErrorContains(t, err, "field port not found")
}

func TestParseEmpty(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse(nil, cfg))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STAYMARKET_HTTP_ADDR":                   ":7070",
		"STAYMARKET_HTTP_RATE_LIMIT":             "2.5",
		"STAYMARKET_DATABASE_DSN":                "postgres://env",
		"STAYMARKET_LOG_LEVEL":                   "debug",
		"STAYMARKET_FILTER_STRICT":               "true",
		"STAYMARKET_FILTER_LIMITS":               "NONE",
		"STAYMARKET_PAGINATION_DEFAULT_PER_PAGE": " 25 ",
		"UNRELATED":                              "x",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, lookup))
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 2.5, cfg.HTTP.RateLimit)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.True(t, cfg.Filter.Strict)
	assert.Nil(t, cfg.Filter.FilterLimits())
	assert.Equal(t, 25, cfg.Pagination.DefaultPerPage)
	require.NoError(t, Validate(cfg))

	env = map[string]string{"STAYMARKET_HTTP_READ_TIMEOUT": "soon"}
	err := ApplyEnv(Default(), lookup)
	require.ErrorContains(t, err, "invalid STAYMARKET_HTTP_READ_TIMEOUT")
}

func TestEnvNames(t *testing.T) {
	names := EnvNames()
	assert.Contains(t, names, "STAYMARKET_DATABASE_DSN")
	assert.Contains(t, names, "STAYMARKET_FILTER_STRICT")
	assert.Len(t, names, len(envVars))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		field  string
	}{
		{name: "missing dsn", modify: func(cfg *Config) { cfg.Database.DSN = "" }, field: "DSN"},
		{name: "bad log level", modify: func(cfg *Config) { cfg.Log.Level = "TRACE" }, field: "Level"},
		{name: "bad log format", modify: func(cfg *Config) { cfg.Log.Format = "xml" }, field: "Format"},
		{name: "bad limits", modify: func(cfg *Config) { cfg.Filter.Limits = "strict" }, field: "Limits"},
		{name: "negative rate", modify: func(cfg *Config) { cfg.HTTP.RateLimit = -1 }, field: "RateLimit"},
		{name: "max below default", modify: func(cfg *Config) { cfg.Pagination.MaxPerPage = 5 }, field: "MaxPerPage"},
		{name: "zero default per page", modify: func(cfg *Config) { cfg.Pagination.DefaultPerPage = 0 }, field: "DefaultPerPage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.DSN = "postgres://localhost"
			tt.modify(cfg)
			err := Validate(cfg)
			require.ErrorContains(t, err, "validate config")
			require.ErrorContains(t, err, tt.field)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staymarket.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("STAYMARKET_LOG_FORMAT=text\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STAYMARKET_LOG_FORMAT") })
	t.Setenv("STAYMARKET_HTTP_ADDR", ":6060")

	cfg, err := Load(path, dotenv, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.HTTP.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Pagination.DefaultPerPage)

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	require.ErrorContains(t, err, "read config file")
}
