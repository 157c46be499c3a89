package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "invoicedesk", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "invoicedesk", cfg.Database.DBName)
		assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
		assert.Equal(t, int64(12<<20), cfg.HTTP.MaxBodySize)
		assert.Equal(t, 10, cfg.HTTP.AuthRateLimit)
		assert.Equal(t, time.Minute, cfg.HTTP.AuthRateWindow)
		assert.Equal(t, "stub", cfg.Storage.Provider)
		assert.Equal(t, 7*24*time.Hour, cfg.Invitation.TTL)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "invoicedesk", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with prefix", func(t *testing.T) {
		t.Setenv("INVOICEDESK_APP_NAME", "test-app")
		t.Setenv("INVOICEDESK_APP_PORT", "9000")
		t.Setenv("INVOICEDESK_DATABASE_HOST", "testdb.local")
		t.Setenv("INVOICEDESK_DATABASE_PORT", "5433")
		t.Setenv("INVOICEDESK_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("INVOICEDESK_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("INVOICEDESK_HTTP_REQUEST_TIMEOUT", "3s")
		t.Setenv("INVOICEDESK_REDIS_ENABLED", "true")
		t.Setenv("INVOICEDESK_STORAGE_PROVIDER", "s3")
		t.Setenv("INVOICEDESK_INVITATION_TTL", "48h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 3*time.Second, cfg.HTTP.RequestTimeout)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "s3", cfg.Storage.Provider)
		assert.Equal(t, 48*time.Hour, cfg.Invitation.TTL)
	})

	t.Run("rejects idle connections above open connections", func(t *testing.T) {
		t.Setenv("INVOICEDESK_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("INVOICEDESK_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects unknown storage provider", func(t *testing.T) {
		t.Setenv("INVOICEDESK_STORAGE_PROVIDER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.provider")
	})

	t.Run("production requires secrets", func(t *testing.T) {
		t.Setenv("INVOICEDESK_APP_ENV", "production")
		t.Setenv("INVOICEDESK_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Storage.Provider = "s3"
		return cfg
	}

	require.NoError(t, base().validate())

	cfg := base()
	cfg.Storage.Provider = "stub"
	assert.ErrorContains(t, cfg.validate(), "stub")

	cfg = base()
	cfg.HTTP.CORSAllowOrigins = []string{"*"}
	assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")

	cfg = base()
	cfg.Swagger.Enabled = true
	assert.ErrorContains(t, cfg.validate(), "swagger")

	cfg = base()
	cfg.Telemetry.SamplingRatio = 2
	assert.ErrorContains(t, cfg.validate(), "sampling_ratio")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "invoicedesk", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/invoicedesk?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
