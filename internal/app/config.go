package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SchemePath string // hcl files

	LogFormat string
	LogLevel  string

	// TickPeriod is the host cycle period.
	TickPeriod time.Duration

	// MetricsPort serves prometheus metrics and the health endpoint.
	// Zero disables the server.
	MetricsPort int

	// RPCAddr is the mangos listen URL of the controller-manager RPC
	// adapter. Empty disables the adapter.
	RPCAddr string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SchemePath == "" {
		return nil, errors.New("SchemePath is a required configuration field and cannot be empty")
	}
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = 10 * time.Millisecond
	}
	return &cfg, nil
}
