package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"navychat/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.PingInterval)
	assert.Equal(t, 30*time.Second, cfg.PongWait)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PING_INTERVAL", "5s")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PingInterval)
	assert.Equal(t, 30*time.Second, cfg.PongWait)
}
