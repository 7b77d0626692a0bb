package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "America/Mexico_City", cfg.Timezone)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestGetEnvAsDurationBadValue(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
}
