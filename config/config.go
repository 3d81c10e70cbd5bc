// Package config holds the auctioneer configuration loaded through viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cloudx-io/auctioneer/pool"
)

// Config represents the complete auctioneer configuration
type Config struct {
	Session  SessionConfig  `mapstructure:"session"`
	Pool     PoolConfig     `mapstructure:"pool"`
	Store    StoreConfig    `mapstructure:"store"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Operator OperatorConfig `mapstructure:"operator"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SessionConfig selects the auction session
type SessionConfig struct {
	// Name is the key the session snapshot is stored under (default: "default")
	Name string `mapstructure:"name"`
}

// PoolConfig locates the player list
type PoolConfig struct {
	// Path is the CSV or Excel file with the roster pool
	Path string `mapstructure:"path"`
	// Columns maps header cells to player fields
	Columns pool.Columns `mapstructure:"columns"`
}

// StoreConfig controls where snapshots are persisted
type StoreConfig struct {
	// Backend is "file" or "redis" (default: "file")
	Backend string `mapstructure:"backend"`
	// Dir is the snapshot directory for the file backend
	Dir   string      `mapstructure:"dir"`
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SnapshotConfig controls the snapshot encoding
type SnapshotConfig struct {
	// Format is "json" or "cbor" (default: "json")
	Format string `mapstructure:"format"`
	// SigningKey is a PEM EC key; when set, snapshots are sealed and verified on load
	SigningKey string `mapstructure:"signing_key"`
}

// OperatorConfig guards mutating commands
type OperatorConfig struct {
	// PasswordHash is a bcrypt hash; empty disables the password check
	PasswordHash string `mapstructure:"password_hash"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: "info")
	Level string `mapstructure:"level"`
	// Format is "console" or "json" (default: "console")
	Format string `mapstructure:"format"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Name: "default",
		},
		Pool: PoolConfig{
			Columns: pool.DefaultColumns(),
		},
		Store: StoreConfig{
			Backend: "file",
			Dir:     filepath.Join(ConfigDir(), "sessions"),
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "auctioneer:",
			},
		},
		Snapshot: SnapshotConfig{
			Format: "json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("session.name", defaults.Session.Name)

	viper.SetDefault("pool.path", defaults.Pool.Path)
	viper.SetDefault("pool.columns.id", defaults.Pool.Columns.ID)
	viper.SetDefault("pool.columns.first_name", defaults.Pool.Columns.FirstName)
	viper.SetDefault("pool.columns.surname", defaults.Pool.Columns.Surname)
	viper.SetDefault("pool.columns.reserve", defaults.Pool.Columns.Reserve)

	viper.SetDefault("store.backend", defaults.Store.Backend)
	viper.SetDefault("store.dir", defaults.Store.Dir)
	viper.SetDefault("store.redis.addr", defaults.Store.Redis.Addr)
	viper.SetDefault("store.redis.password", defaults.Store.Redis.Password)
	viper.SetDefault("store.redis.db", defaults.Store.Redis.DB)
	viper.SetDefault("store.redis.key_prefix", defaults.Store.Redis.KeyPrefix)

	viper.SetDefault("snapshot.format", defaults.Snapshot.Format)
	viper.SetDefault("snapshot.signing_key", defaults.Snapshot.SigningKey)

	viper.SetDefault("operator.password_hash", defaults.Operator.PasswordHash)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the auctioneer configuration directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "auctioneer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auctioneer"
	}
	return filepath.Join(home, ".config", "auctioneer")
}
