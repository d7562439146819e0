package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"procurement/internal/config"
)

func TestNewConfigDefaults(t *testing.T) {
	unsetenv(t, "SERVER_ADDRESS", "STORAGE", "SHUTDOWN_TIMEOUT", "AUTO_MIGRATE")

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	require.Equal(t, config.StoragePostgres, cfg.Storage)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.True(t, cfg.AutoMigrate)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9000")
	t.Setenv("STORAGE", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	require.Equal(t, config.StorageMemory, cfg.Storage)
	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.AutoMigrate)
}

func TestNewConfigRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "redis")

	_, err := config.NewConfig()
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := config.PostgresConfig{Conn: "postgres://u:p@db:5432/x"}
	require.Equal(t, "postgres://u:p@db:5432/x", c.DSN())

	c = config.PostgresConfig{
		Host:     "db",
		Port:     "5433",
		Username: "tender",
		Password: "secret",
		Database: "procurement",
	}
	require.Equal(t, "postgres://tender:secret@db:5433/procurement?sslmode=disable", c.DSN())
}

// unsetenv убирает переменные на время теста и восстанавливает их после.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
