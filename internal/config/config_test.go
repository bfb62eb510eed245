package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_PORT", "CORS_ALLOWED_ORIGINS", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL_MINUTES",
		"REFRESH_TOKEN_TTL_HOURS", "COOKIE_SECURE", "COOKIE_DOMAIN", "INITIAL_ADMIN_EMAIL",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "RECONCILE_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/motocrm")
	t.Setenv("JWT_SECRET_KEY", secret)
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECONCILE_SCHEDULE", "off")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Scheduler.ReconcileEnabled())

	dsn, err := cfg.Database.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/motocrm", dsn)
}

func TestLoad_NoCORSOriginsByDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/motocrm")
	t.Setenv("JWT_SECRET_KEY", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.CORSOrigins)
}

func TestLoad_MissingDatabaseIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", secret)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/motocrm")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET_KEY", "short")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
database:
  host: db
  port: "5432"
  user: moto
  password: pw
  name: crm
auth:
  jwt_secret: "` + secret + `"
  refresh_ttl_hours: 48
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTTL())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Scheduler.ReconcileEnabled())

	dsn, err := cfg.Database.DSN()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=moto password=pw dbname=crm sslmode=disable", dsn)
}
