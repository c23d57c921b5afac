package config

import (
	"hypr-minimize/pkg/logger"
)

// DefaultConfig creates a default configuration.
func DefaultConfig(log *logger.Logger) *Config {
	log.Debug("Creating default configuration")

	return &Config{
		specialWorkspace: DefaultSpecialWorkspace,
		pollInterval:     DefaultPollInterval,
		historyEnabled:   true,
		log:              log,
	}
}
