package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[building]
enabled = false
start_materials = 40
max_structures = 12

[network]
tick_rate = "100ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Building.Enabled)
	assert.Equal(t, 40, cfg.Building.StartMaterials)
	assert.Equal(t, 12, cfg.Building.MaxStructures)
	assert.Equal(t, 100*time.Millisecond, cfg.Network.TickRate)
	assert.Equal(t, "QuakeNite", cfg.Server.Name, "unset keys keep their defaults")
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.True(t, cfg.Building.Enabled)
	assert.Equal(t, 100, cfg.Building.StartMaterials)
	assert.Equal(t, 256, cfg.Building.MaxStructures)
	assert.Equal(t, 1024, cfg.World.MaxEntities)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/server.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "[building]\nstart_materials = -1\nmax_structures = 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_materials")
	assert.Contains(t, err.Error(), "max_structures")
}

func TestLoad_MalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[building\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("../../config/server.toml")
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.Network.TickRate)
	assert.Equal(t, 256, cfg.Building.MaxStructures)
	assert.Empty(t, cfg.Database.DSN)
}
