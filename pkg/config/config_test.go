package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 3, cfg.Store.MaxRetries)
	assert.Equal(t, 72*time.Hour, cfg.Approval.TokenTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("STORE_TIMEOUT_SECONDS", "2")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("APP_PUBLIC_URL", "https://erp.example.com/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "https://erp.example.com", cfg.App.PublicURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "orderflow", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/orderflow?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
