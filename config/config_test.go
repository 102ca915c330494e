package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	SetPath(filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DOCERIA_DB_PATH", "")
	t.Setenv("DOCERIA_PORT", "")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, 10.0, c.Stock.LowStockThreshold)
	assert.True(t, c.Stock.AllowNegative)
	assert.Equal(t, 24, c.Auth.TokenTTLHours)
}

func TestLoadConfig_ReadsYAMLAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doceria.yaml")
	require.NoError(t, os.WriteFile(p, []byte("server:\n  port: \"9090\"\nstock:\n  allowNegative: false\n  lowStockThreshold: 5\n"), 0644))
	SetPath(p)
	t.Setenv("DOCERIA_JWT_SECRET", "s3cret")
	t.Setenv("DOCERIA_PORT", "")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Server.Port)
	assert.False(t, c.Stock.AllowNegative)
	assert.Equal(t, 5.0, c.Stock.LowStockThreshold)
	assert.Equal(t, "s3cret", c.Auth.JWTSecret)
	assert.Equal(t, c, GetConfig())
}

func TestSaveConfig_KeepsSecretOutOfFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doceria.yaml")
	SetPath(p)
	Set(Config{Auth: AuthConfig{JWTSecret: "keep-me"}})

	next := Default()
	next.Server.Port = "7070"
	require.NoError(t, SaveConfig(next))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "keep-me")
	assert.Equal(t, "keep-me", GetConfig().Auth.JWTSecret)
	assert.Equal(t, "7070", GetConfig().Server.Port)
}

func TestSaveConfig_EnvOverridesStayOutOfFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doceria.yaml")
	require.NoError(t, os.WriteFile(p, []byte("database:\n  path: ./arquivo.db\nstock:\n  allowNegative: true\n"), 0644))
	SetPath(p)
	t.Setenv("DOCERIA_DB_PATH", "/var/lib/doceria/env.db")
	t.Setenv("DOCERIA_PORT", "")
	t.Setenv("DOCERIA_PUSH_RELAY_URL", "https://relay.example/push")
	t.Setenv("DOCERIA_ALLOW_NEGATIVE_STOCK", "false")

	c, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "/var/lib/doceria/env.db", c.Database.Path)
	require.False(t, c.Stock.AllowNegative)

	c.Server.Port = "7071"
	require.NoError(t, SaveConfig(c))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "./arquivo.db")
	assert.Contains(t, string(raw), "7071")
	assert.Contains(t, string(raw), "allowNegative: true")
	assert.NotContains(t, string(raw), "env.db")
	assert.NotContains(t, string(raw), "relay.example")

	got := GetConfig()
	assert.Equal(t, "/var/lib/doceria/env.db", got.Database.Path)
	assert.Equal(t, "https://relay.example/push", got.Notify.RelayURL)
	assert.False(t, got.Stock.AllowNegative)
	assert.Equal(t, "7071", got.Server.Port)
}
