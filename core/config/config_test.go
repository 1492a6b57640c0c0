package config_test

import (
	"testing"

	"drive-manager/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "drive", cfg.Storage.Bucket)
	assert.Equal(t, 1024, cfg.Cache.MaxEntries)
	assert.Equal(t, 120, cfg.Cache.ListTTLSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3306, cfg.Database.Port)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BUCKET", "tenant-drive")
	t.Setenv("CACHE_LIST_TTL_SECONDS", "30")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "tenant-drive", cfg.Storage.Bucket)
	assert.Equal(t, 30, cfg.Cache.ListTTLSeconds)
}
