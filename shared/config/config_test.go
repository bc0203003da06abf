package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(Order, "")
	require.NoError(t, err)

	assert.Equal(t, "3003", cfg.HTTP.Port)
	assert.Equal(t, "order_queue", cfg.Broker.Queue)
	assert.Equal(t, 5*time.Second, cfg.Broker.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TTL)
	assert.Equal(t, "payment_queue", cfg.Services[Payment])
	assert.Contains(t, cfg.Database.URL, "shop_orders")
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORS)
}

func TestGatewayHasNoDatabase(t *testing.T) {
	cfg := Default(Gateway)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Broker.Queue)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHOP_HTTP_PORT", "9000")
	t.Setenv("SHOP_HTTP_CORS", "https://a.example, https://b.example")
	t.Setenv("SHOP_BROKER_TIMEOUT", "750ms")
	t.Setenv("SHOP_AUTH_SECRET", "s3cret")
	t.Setenv("SHOP_SERVICES_USER", "users_v2")
	t.Setenv("SHOP_RATELIMIT_RPS", "2.5")

	cfg, err := Load(Gateway, "")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORS)
	assert.Equal(t, 750*time.Millisecond, cfg.Broker.Timeout)
	assert.Equal(t, "users_v2", cfg.Services[User])
	assert.Equal(t, "product_queue", cfg.Services[Product])
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.NoError(t, cfg.RequireSecret())
}

func TestFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "7000"
session:
  store: redis
log:
  level: debug
`), 0o600))
	t.Setenv("SHOP_LOG_LEVEL", "warn")

	cfg, err := Load(Auth, path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.HTTP.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "auth_queue", cfg.Broker.Queue)
}

func TestMissingFile(t *testing.T) {
	_, err := Load(User, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRequireSecret(t *testing.T) {
	assert.Error(t, Default(Auth).RequireSecret())
}
