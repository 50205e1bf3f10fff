package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-router/internal/errs"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ConnectorTimeout)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("CONNECTOR_TIMEOUT_MS", "2500")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("OPAYO_API_KEY", "opayo-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, 2500*time.Millisecond, cfg.ConnectorTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "opayo-secret", cfg.OpayoAPIKey.Expose())
}

func TestLoadRejectsMalformedTimeout(t *testing.T) {
	t.Setenv("CONNECTOR_TIMEOUT_MS", "soon")

	_, err := Load()
	var routerErr *errs.RouterError
	require.True(t, errors.As(err, &routerErr))
	assert.Equal(t, errs.KindConfiguration, routerErr.Kind)
}

func TestAPIKeyIsRedactedWhenLogged(t *testing.T) {
	t.Setenv("STRIPE_API_KEY", "sk_live_very_secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotContains(t, cfg.StripeAPIKey.String(), "sk_live_very_secret")
}
