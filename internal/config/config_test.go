package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 30.0, cfg.Router.MinConfidence)
	assert.Equal(t, 50.0, cfg.Router.AmbiguityFloor)
	assert.Equal(t, 70.0, cfg.Router.SingleIntent)
	assert.Equal(t, 20.0, cfg.Router.CloseMargin)
	assert.Equal(t, 3, cfg.Router.MaxCandidates)
	assert.Equal(t, 10*time.Second, cfg.Integrations.Timeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("INTEGRATION_TIMEOUT", "5")
	t.Setenv("ROUTER_MIN_CONFIDENCE", "40.5")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 45*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 5*time.Second, cfg.Integrations.Timeout)
	assert.Equal(t, 40.5, cfg.Router.MinConfidence)
	assert.True(t, cfg.App.OtelEnabled)
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("SOME_DURATION", time.Minute))
}
