package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			HTTPPort: 5000,
			GRpcPort: 50057,
		},
		Store: StoreConfig{Driver: StoreDriverRedis},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Payment: PaymentConfig{
			KeySecret:     "key-secret",
			WebhookSecret: "webhook-secret",
		},
		Ticket:     TicketConfig{NodeID: 1},
		Dispatcher: DispatcherConfig{Workers: 1, QueueSize: 8, Timeout: time.Second},
		Admin:      AdminConfig{JWTSecret: "jwt-secret"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("rejects identical payment secrets", func(t *testing.T) {
		cfg := validConfig()
		cfg.Payment.WebhookSecret = cfg.Payment.KeySecret
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown store driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Driver = "mongo"
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres driver needs a database url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Driver = StoreDriverPostgres
		assert.Error(t, cfg.Validate())

		cfg.Postgres.URL = "postgres://localhost/ticketing"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects invalid ports", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.HTTPPort = 0
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.Server.GRpcPort = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out of range snowflake node", func(t *testing.T) {
		cfg := validConfig()
		cfg.Ticket.NodeID = 1024
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires secrets", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		require.Error(t, cfg.Validate())

		cfg.Admin.JWTSecret = "a-real-secret"
		cfg.Admin.PasswordHash = "$2a$10$hash"
		assert.NoError(t, cfg.Validate())

		cfg.Payment.WebhookSecret = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "nope")
	t.Setenv("TEST_DURATION", "2s")
	t.Setenv("TEST_SLICE", "a, b,,c ")
	t.Setenv("TEST_BOOL", "false")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_BAD_INT", 1))
	assert.Equal(t, 2*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsSlice("TEST_SLICE", nil))
	assert.False(t, getEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, "fallback", getEnv("TEST_MISSING", "fallback"))
}
