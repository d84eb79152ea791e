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
	for _, key := range []string{
		"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "PORT",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_REGION",
		"MINIO_BUCKET", "MINIO_USE_SSL", "JWT_SECRET", "LOG_LEVEL",
		"REPORTS_TIMEZONE", "JOBS_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "assetdesk.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
port = 9090
timezone = "UTC"

[database]
url = "postgres://file/assetdesk"

[redis]
addr = "redis-file:6379"
filter_ttl = "720h"

[jobs]
dataset_refresh = "1m"
archive_at = "02:30"

[auth]
secret = "from-file"

[tables]
page_size = 25
`)
	t.Setenv("REDIS_ADDR", "redis-env:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://file/assetdesk", cfg.Database.URL)
	assert.Equal(t, "redis-env:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 720*time.Hour, cfg.Redis.FilterTTL.Duration)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, time.Minute, cfg.Jobs.DatasetRefresh.Duration)
	assert.Equal(t, "02:30", cfg.Jobs.ArchiveAt)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.False(t, cfg.Auth.SecretGenerated)
	assert.Equal(t, 25, cfg.Tables.PageSize)
	// untouched sections keep their defaults
	assert.Equal(t, "reports", cfg.Minio.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.Reports.URLExpiry.Duration)
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/assetdesk")
	t.Setenv("PORT", "8181")
	t.Setenv("JOBS_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.False(t, cfg.Jobs.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_GeneratesSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/assetdesk")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Auth.SecretGenerated)
	assert.Len(t, cfg.Auth.Secret, 32)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "missing database url"},
		{name: "bad port", env: map[string]string{"DATABASE_URL": "postgres://x", "PORT": "http"}},
		{name: "port out of range", env: map[string]string{"DATABASE_URL": "postgres://x", "PORT": "70000"}},
		{name: "bad duration", file: "[jobs]\ndataset_refresh = \"soon\"\n", env: map[string]string{"DATABASE_URL": "postgres://x"}},
		{name: "bad timezone", env: map[string]string{"DATABASE_URL": "postgres://x", "REPORTS_TIMEZONE": "Mars/Olympus"}},
		{name: "zero page size", file: "[tables]\npage_size = 0\n", env: map[string]string{"DATABASE_URL": "postgres://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://x")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "failed to load config file")
}
