package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "STORE_DRIVER", "REDIS_HOST", "KAFKA_BROKER", "LOG_ENCODING", "MENU_CACHE_TTL"} {
		t.Setenv(key, "")
	}
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("HTTP_ADDR", ":8081")
	t.Setenv("LOG_ENCODING", "console")
	t.Setenv("MENU_CACHE_TTL", "300")

	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "console", cfg.Logger.Encoding)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_ENCODING", "json")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("MENU_CACHE_TTL", "60")
	t.Setenv("KAFKA_BROKER", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "json", cfg.Logger.Encoding)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
}

func TestGetEnvSlice(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		expected []string
	}{
		{name: "unset", set: false, expected: []string{"fallback"}},
		{name: "blank", value: "  ", set: true, expected: []string{"fallback"}},
		{name: "single", value: "a", set: true, expected: []string{"a"}},
		{name: "trims parts", value: " a , b,,c ", set: true, expected: []string{"a", "b", "c"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if testCase.set {
				t.Setenv("TEST_SLICE", testCase.value)
			}
			assert.Equal(t, testCase.expected, getEnvSlice("TEST_SLICE", []string{"fallback"}))
		})
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "app", Password: "secret", DBName: "partyorder", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=partyorder sslmode=disable", cfg.DSN())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "debug", Encoding: "json"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LoggerConfig{Level: "loud", Encoding: "json"})
	assert.Error(t, err)
}
