package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "8000",
		Env:                      "development",
		DBDriver:                 "postgres",
		DBSSLMode:                "disable",
		DBPassword:               "secure-password",
		DBSchemaMode:             "hybrid",
		DBConnMaxLifetimeMinutes: 1,
		SessionSecret:            "secure-secret-at-least-32-chars-long",
		SessionTTLHours:          24,
		RedisURL:                 "redis://localhost:6379",
		TracingSampleRatio:       1,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		driver      string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "postgres", "", true},
		{"Production with disable SSL mode", "production", "postgres", "disable", true},
		{"Production with require SSL mode", "production", "postgres", "require", false},
		{"Prod with verify-full SSL mode", "prod", "postgres", "verify-full", false},
		{"Production sqlite ignores SSL mode", "production", "sqlite", "", false},
		{"Development with disable SSL mode", "development", "postgres", "disable", false},
		{"Test with empty SSL mode", "test", "postgres", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBDriver = tt.driver
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing session secret", func(c *Config) { c.SessionSecret = "" }},
		{"zero session ttl", func(c *Config) { c.SessionTTLHours = 0 }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"unknown schema mode", func(c *Config) { c.DBSchemaMode = "magic" }},
		{"sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.SessionSecret = defaultSessionSecret
		}},
		{"short secret in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.SessionSecret = "too-short"
		}},
		{"weak db password in production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.DBPassword = "password"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	c := validConfig()
	c.DBHost = "db"
	c.DBUser = "forum"
	c.DBName = "quorum"
	c.DBPort = "5433"
	assert.Equal(t, "host=db user=forum password=secure-password dbname=quorum port=5433 sslmode=disable", c.DSN())

	c.DBDriver = "sqlite"
	c.DBSQLitePath = "/tmp/quorum.db"
	assert.Equal(t, "/tmp/quorum.db", c.DSN())
}

func TestLoadConfig_Normalization(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_DRIVER", "SQLite")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 336, c.SessionTTLHours)
}

func TestLoadConfig_MissingProfileFails(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "staging")

	_, err := LoadConfig()
	assert.Error(t, err)
}
