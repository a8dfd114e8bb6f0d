package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DQ_DATABASE_URL", "postgres://dq@localhost/dq?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.DatabaseConnectRetries)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, "dqdash", cfg.MQTTClientID)
	assert.Empty(t, cfg.MQTTBrokerURL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DQ_DATABASE_URL", "file:dq.db")
	t.Setenv("DQ_DATABASE_DRIVER", "sqlite3")
	t.Setenv("DQ_REDIS_ADDRESS", "redis:6379")
	t.Setenv("DQ_MQTT_BROKER_URL", "tcp://mqtt:1883")
	t.Setenv("DQ_TIMEZONE", "UTC")
	t.Setenv("DQ_REPORT_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "redis:6379", cfg.RedisAddress)
	assert.Equal(t, "tcp://mqtt:1883", cfg.MQTTBrokerURL)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DQ_DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DQ_DATABASE_URL", "file:dq.db")
	t.Setenv("DQ_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}
