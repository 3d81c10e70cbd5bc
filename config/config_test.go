package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	check.Equal(t, 0, len(cfg.Validate()))
	check.Equal(t, "default", cfg.Session.Name)
	check.Equal(t, "First Name", cfg.Pool.Columns.FirstName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{name: "empty session", modify: func(c *Config) { c.Session.Name = " " }, field: "session.name"},
		{name: "session with slash", modify: func(c *Config) { c.Session.Name = "a/b" }, field: "session.name"},
		{name: "no first name column", modify: func(c *Config) { c.Pool.Columns.FirstName = "" }, field: "pool.columns.first_name"},
		{name: "no surname column", modify: func(c *Config) { c.Pool.Columns.Surname = "" }, field: "pool.columns.surname"},
		{name: "unknown backend", modify: func(c *Config) { c.Store.Backend = "s3" }, field: "store.backend"},
		{name: "file without dir", modify: func(c *Config) { c.Store.Dir = "" }, field: "store.dir"},
		{name: "redis without addr", modify: func(c *Config) { c.Store.Backend = "redis"; c.Store.Redis.Addr = "" }, field: "store.redis.addr"},
		{name: "redis negative db", modify: func(c *Config) { c.Store.Backend = "redis"; c.Store.Redis.DB = -1 }, field: "store.redis.db"},
		{name: "snapshot format", modify: func(c *Config) { c.Snapshot.Format = "xml" }, field: "snapshot.format"},
		{name: "plaintext password", modify: func(c *Config) { c.Operator.PasswordHash = "secret" }, field: "operator.password_hash"},
		{name: "log level", modify: func(c *Config) { c.Logging.Level = "verbose" }, field: "logging.level"},
		{name: "log format", modify: func(c *Config) { c.Logging.Format = "xml" }, field: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			assert.Equal(t, 1, len(errs))
			check.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var empty ValidationErrors
	check.Equal(t, "", empty.Error())

	single := ValidationErrors{{Field: "store.backend", Value: "s3", Message: "is invalid"}}
	check.Equal(t, "store.backend: is invalid (got: s3)", single.Error())

	multi := ValidationErrors{
		{Field: "store.backend", Value: "s3", Message: "is invalid"},
		{Field: "logging.level", Value: "loud", Message: "is invalid"},
	}
	check.True(t, strings.Contains(multi.Error(), "2 validation errors"))
}

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("session.name", "ipl-2025")
	viper.Set("store.backend", "redis")
	viper.Set("pool.columns.reserve", "Base Price")

	cfg, err := Load()
	assert.NoError(t, err)
	check.Equal(t, "ipl-2025", cfg.Session.Name)
	check.Equal(t, "redis", cfg.Store.Backend)
	check.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	check.Equal(t, "Base Price", cfg.Pool.Columns.Reserve)
	check.Equal(t, "Player ID", cfg.Pool.Columns.ID)
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("snapshot.format", "xml")
	viper.Set("logging.level", "loud")

	_, err := Load()
	var verrs ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	check.Equal(t, 2, len(verrs))
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	check.Equal(t, filepath.Join(dir, "auctioneer"), ConfigDir())
}

func TestSetupLogging(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	SetupLogging(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	check.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Str("team", "A").Msg("shown")
	check.False(t, strings.Contains(buf.String(), "hidden"))
	check.True(t, strings.Contains(buf.String(), `"team":"A"`))
}
