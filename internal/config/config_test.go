package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfkeygen/internal/history"
	"github.com/pfkeygen/internal/license"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pfkeygen.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, license.DefaultSecret, cfg.License.Secret)
	assert.Equal(t, license.OverflowWrap, cfg.License.Segment5Overflow)
	assert.Equal(t, history.DefaultSlot, cfg.History.Slot)
	assert.Equal(t, history.DefaultCapacity, cfg.History.Capacity)
	assert.Equal(t, "file", cfg.History.Backend)
	assert.NotEmpty(t, cfg.History.Dir)
	assert.Equal(t, "id", cfg.Format.Locale)
	assert.Equal(t, 12*time.Hour, cfg.Server.SessionTTL)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
[license]
secret = "file-secret"
segment5_overflow = "widen"

[history]
capacity = 20
backend = "memory"

[format]
locale = "en"
timezone = "UTC"

[server]
session_ttl = "30m"
`)
	t.Setenv("PFKEYGEN_HISTORY__SLOT", "env_slot")
	t.Setenv("PFKEYGEN_SERVER__PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.License.Secret)
	assert.True(t, cfg.LicenseConfig().Widens())
	assert.Equal(t, history.Options{Slot: "env_slot", Capacity: 20}, cfg.HistoryOptions())
	assert.Equal(t, "memory", cfg.StorageOptions().Backend)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC.String(), loc.String())
	assert.NoError(t, Validate(cfg))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := LoadConfig(writeConfig(t, ""))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty secret", func(c *Config) { c.License.Secret = "" }, "secret"},
		{"bad overflow", func(c *Config) { c.License.Segment5Overflow = "truncate" }, "overflow"},
		{"zero capacity", func(c *Config) { c.History.Capacity = 0 }, "capacity"},
		{"unknown backend", func(c *Config) { c.History.Backend = "redis" }, "unsupported history backend"},
		{"postgres without url", func(c *Config) { c.History.Backend = "postgres" }, "database_url"},
		{"bad locale", func(c *Config) { c.Format.Locale = "fr" }, "locale"},
		{"bad timezone", func(c *Config) { c.Format.Timezone = "Mars/Olympus" }, "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	err = ValidateServer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password_hash")
	assert.Contains(t, err.Error(), "jwt_secret")

	cfg.Server.PasswordHash = "$2a$10$abcdefghijklmnopqrstuu"
	cfg.Server.JWTSecret = "0123456789abcdef"
	assert.NoError(t, ValidateServer(cfg))
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pfkeygen.toml")
	require.NoError(t, InitConfig(path))
	assert.True(t, Exists(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
	assert.Equal(t, license.DefaultSecret, cfg.License.Secret)

	assert.Error(t, InitConfig(path), "refuses to overwrite")
}
