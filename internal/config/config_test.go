package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  mode: debug
auth:
  jwt_secret: test-secret
ai:
  api_key: file-key
  timeout: 20s
quota:
  max_requests: 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Mode: "debug"},
		Database:  DatabaseConfig{Driver: "postgres"},
		Auth:      AuthConfig{JWTSecret: "secret"},
		AI:        AIConfig{Provider: "gemini", APIKey: "key", Timeout: time.Second},
		RateLimit: RateLimitConfig{MaxRequests: 10, WindowMinutes: 1},
	}
}

func TestLoadConfigDefaultsAndFile(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	testChdir(t, t.TempDir())

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, "file-key", cfg.AI.APIKey)
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-6)
	assert.Equal(t, int32(32), cfg.AI.TopK)
	assert.Equal(t, int32(4096), cfg.AI.MaxOutputTokens)
	assert.Equal(t, 15*time.Second, cfg.Sandbox.Timeout)
	assert.Equal(t, 5, cfg.Quota.MaxRequests)
	assert.Equal(t, 60, cfg.Quota.WindowMinutes)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	testChdir(t, t.TempDir())
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_DRIVER", "mysql")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoadConfigMissingKeyFails(t *testing.T) {
	dir := writeConfig(t, "auth:\n  jwt_secret: s\n")
	testChdir(t, t.TempDir())

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai.api_key")
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(c *Config){
		"unknown provider":       func(c *Config) { c.AI.Provider = "claude" },
		"openai without url":     func(c *Config) { c.AI.Provider = "openai" },
		"zero timeout":           func(c *Config) { c.AI.Timeout = 0 },
		"unknown driver":         func(c *Config) { c.Database.Driver = "sqlite" },
		"missing secret":         func(c *Config) { c.Auth.JWTSecret = "" },
		"short release secret":   func(c *Config) { c.Server.Mode = "release" },
		"quota without redis":    func(c *Config) { c.Quota = QuotaConfig{Enabled: true, MaxRequests: 1, WindowMinutes: 1} },
		"invalid rate limit":     func(c *Config) { c.RateLimit.MaxRequests = 0 },
		"blank api key":          func(c *Config) { c.AI.APIKey = "   " },
		"quota with zero window": func(c *Config) { c.Redis.Enabled = true; c.Quota = QuotaConfig{Enabled: true, MaxRequests: 1} },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

// testChdir 切换工作目录，并在测试结束时恢复（Go 1.21 没有 t.Chdir）。
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
