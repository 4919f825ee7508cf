package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := DefaultAppConfig()
	assert.Equal(t, def.Database, cfg.Database)
	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Reset.Hour)
	assert.True(t, cfg.Reset.ReopenMissions)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":4000\"\nreset:\n  hour: 6\n"), 0o644))
	t.Setenv("MISSIONBOARD_RESET_HOUR", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Reset.Hour)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = "postgres://localhost/missionboard"
	cfg.Reset.Minute = 30

	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", got.Database.Driver)
	assert.Equal(t, "postgres://localhost/missionboard", got.Database.DSN)
	assert.Equal(t, 30, got.Reset.Minute)
}

func TestValidate(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Reset.Hour = 24
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Auth.TokenTTLHours = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 24*7, cfg.Auth.TokenTTLHours)
}

func TestLoadConfigAdminUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  admin_users:\n    - root\n    - ops\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "ops"}, cfg.Server.AdminUsers)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.AdminUsers)
}
