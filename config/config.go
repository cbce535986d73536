package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the deployment knobs. History and length caps are protocol
// constants, not configuration.
type Config struct {
	Port            string        `envconfig:"PORT" default:"5000"`
	PingInterval    time.Duration `envconfig:"PING_INTERVAL" default:"15s"`
	PongWait        time.Duration `envconfig:"PONG_WAIT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads the configuration from the environment.
func Load() Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
