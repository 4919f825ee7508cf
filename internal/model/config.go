package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. MISSIONBOARD_SERVER_ADDR.
const EnvPrefix = "MISSIONBOARD"

// DatabaseConfig selects the store driver and its connection string.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr       string `mapstructure:"addr" yaml:"addr"`
	Mode       string `mapstructure:"mode" yaml:"mode"`
	CORSOrigin string `mapstructure:"cors_origin" yaml:"cors_origin"`

	// AdminUsers are the usernames allowed to use the /api/admin routes.
	// Empty disables them for every account.
	AdminUsers []string `mapstructure:"admin_users" yaml:"admin_users"`
}

// AuthConfig holds token issuance and signing-key storage settings.
type AuthConfig struct {
	// TokenTTLHours is how long an issued token stays valid.
	TokenTTLHours int `mapstructure:"token_ttl_hours" yaml:"token_ttl_hours"`

	// KeyringBackend forces a keyring backend ("file", "keychain",
	// "secret-service", "wincred", "pass"). Empty tries all of them.
	KeyringBackend string `mapstructure:"keyring_backend" yaml:"keyring_backend"`

	// KeyringDir is the directory used by the file backend.
	KeyringDir string `mapstructure:"keyring_dir" yaml:"keyring_dir"`
}

// ResetConfig controls the daily focus-list reset.
type ResetConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Hour and Minute are the UTC wall-clock time the reset fires.
	Hour   int `mapstructure:"hour" yaml:"hour"`
	Minute int `mapstructure:"minute" yaml:"minute"`

	// ReopenMissions also reopens completed missions whose tasks the
	// reset moved back to NOT_STARTED.
	ReopenMissions bool `mapstructure:"reopen_missions" yaml:"reopen_missions"`

	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Reset    ResetConfig    `mapstructure:"reset" yaml:"reset"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/missionboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "missionboard", "config.yaml")
}

// defaultDataDir returns the directory holding the database and file keyring.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "missionboard")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dataDir := defaultDataDir()
	return &AppConfig{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(dataDir, "missionboard.db"),
		},
		Server: ServerConfig{
			Addr:       ":3001",
			Mode:       "debug",
			CORSOrigin: "*",
		},
		Auth: AuthConfig{
			TokenTTLHours: 24 * 7,
			KeyringDir:    filepath.Join(dataDir, "credentials"),
		},
		Reset: ResetConfig{
			Enabled:        true,
			Hour:           5,
			Minute:         0,
			ReopenMissions: true,
			TimeoutSec:     60,
		},
	}
}

// setDefaults registers every default with v so that env overrides
// resolve even when the key is absent from the file.
func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("database.driver", cfg.Database.Driver)
	v.SetDefault("database.dsn", cfg.Database.DSN)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.mode", cfg.Server.Mode)
	v.SetDefault("server.cors_origin", cfg.Server.CORSOrigin)
	v.SetDefault("server.admin_users", cfg.Server.AdminUsers)
	v.SetDefault("auth.token_ttl_hours", cfg.Auth.TokenTTLHours)
	v.SetDefault("auth.keyring_backend", cfg.Auth.KeyringBackend)
	v.SetDefault("auth.keyring_dir", cfg.Auth.KeyringDir)
	v.SetDefault("reset.enabled", cfg.Reset.Enabled)
	v.SetDefault("reset.hour", cfg.Reset.Hour)
	v.SetDefault("reset.minute", cfg.Reset.Minute)
	v.SetDefault("reset.reopen_missions", cfg.Reset.ReopenMissions)
	v.SetDefault("reset.timeout_sec", cfg.Reset.TimeoutSec)
}

// NewViper returns a viper instance configured for path with defaults and
// MISSIONBOARD_* environment overrides applied. Callers may bind flags to
// it before passing it to LoadConfigFrom.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultAppConfig())
	return v
}

// LoadConfig reads configuration from the given YAML file path.
// A missing file yields the defaults (with env overrides).
func LoadConfig(path string) (*AppConfig, error) {
	return LoadConfigFrom(NewViper(path))
}

// LoadConfigFrom reads and validates configuration using v.
func LoadConfigFrom(v *viper.Viper) (*AppConfig, error) {
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", v.ConfigFileUsed(), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Reset.Hour < 0 || c.Reset.Hour > 23 {
		return fmt.Errorf("reset.hour must be between 0 and 23, got %d", c.Reset.Hour)
	}
	if c.Reset.Minute < 0 || c.Reset.Minute > 59 {
		return fmt.Errorf("reset.minute must be between 0 and 59, got %d", c.Reset.Minute)
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24 * 7
	}
	if c.Reset.TimeoutSec <= 0 {
		c.Reset.TimeoutSec = 60
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("server", cfg.Server)
	v.Set("auth", cfg.Auth)
	v.Set("reset", cfg.Reset)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
