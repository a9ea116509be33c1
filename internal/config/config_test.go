package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Postgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "host=localhost user=postgres dbname=registros sslmode=disable")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, "s3cret", cfg.Auth.APIKey)
	require.Equal(t, "6379", cfg.Redis.Port)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, "registros", cfg.MongoDB.Collection)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_Mongo(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "panaderia_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DriverMongo, cfg.Store.Driver)
	require.Equal(t, "panaderia_test", cfg.MongoDB.Database)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "cassandra")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RATE_LIMIT_USE_REDIS", "true")
	t.Setenv("REDIS_HOST", "")
	_, err = LoadConfig()
	require.Error(t, err)
}
