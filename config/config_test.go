package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  serviceName: healthtrack
  log:
    level: info
http:
  port: 8080
  basePath: /api/
database:
  driver: SQLite
  sqlitePath: ":memory:"
jwt:
  signingKey: from-file
  accessTTL: 30m
cookie:
  secure: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	return dir
}

func TestLoadWithEnv_ReadsYAMLAndEnvOverrides(t *testing.T) {
	t.Chdir(writeConfig(t, testYAML))
	t.Setenv("JWT_SIGNINGKEY", "from-env")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "healthtrack", cfg.Env.ServiceName)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "from-env", cfg.JWT.SigningKey)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	require.NotNil(t, cfg.Cookie.Secure)
	assert.False(t, cfg.Cookie.IsSecure())
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	t.Chdir(writeConfig(t, testYAML))

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	cfg.applyDefaults()

	assert.Equal(t, "/api", cfg.HTTP.BasePath)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "lax", cfg.Cookie.SameSite)
}

func TestCookieConfig_IsSecureDefaultsToTrue(t *testing.T) {
	assert.True(t, CookieConfig{}.IsSecure())

	secure := false
	assert.False(t, CookieConfig{Secure: &secure}.IsSecure())
}
