package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PERSISTENCE_ENABLED", "")
	t.Setenv("REFERENCE_SOURCE", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, ReferenceSourceEmbedded, cfg.Reference.Source)
	assert.Equal(t, ">= 1.0.0, < 2.0.0", cfg.Reference.SchemaConstraint)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("Invalid Server Port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "eighty")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Invalid Cache TTL", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{
				Driver:   "postgres",
				Host:     "localhost",
				Username: "postgres",
				Password: "secret",
				Name:     "tariff_db",
			},
			Reference: ReferenceConfig{Source: ReferenceSourceEmbedded},
			Cache:     CacheConfig{TTL: time.Minute},
		}
	}

	t.Run("Persistence Disabled Needs No Password", func(t *testing.T) {
		cfg := base()
		cfg.Database.Password = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Postgres Requires Password", func(t *testing.T) {
		cfg := base()
		cfg.Database.Enabled = true
		cfg.Database.Password = ""
		assert.EqualError(t, cfg.Validate(), "DB_PASSWORD is required")
	})

	t.Run("SQLite Needs Only A Path", func(t *testing.T) {
		cfg := base()
		cfg.Database = DatabaseConfig{Enabled: true, Driver: "sqlite", SQLitePath: "/tmp/tariff.db"}
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "/tmp/tariff.db", cfg.Database.DSN())
	})

	t.Run("Unknown Driver", func(t *testing.T) {
		cfg := base()
		cfg.Database.Enabled = true
		cfg.Database.Driver = "mysql"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Database Source Requires Persistence", func(t *testing.T) {
		cfg := base()
		cfg.Reference.Source = ReferenceSourceDatabase
		assert.Error(t, cfg.Validate())

		cfg.Database.Enabled = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Storage Source Requires Key", func(t *testing.T) {
		cfg := base()
		cfg.Reference.Source = ReferenceSourceStorage
		assert.Error(t, cfg.Validate())

		cfg.Reference.Key = "reference/tariff.yaml"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Unknown Source", func(t *testing.T) {
		cfg := base()
		cfg.Reference.Source = "ftp"
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		Username: "user",
		Password: "p@ss word",
		Name:     "tariff_db",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://user:p%40ss%20word@db:5432/tariff_db?sslmode=disable", cfg.DSN())
}
