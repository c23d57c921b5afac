package config

import (
	"time"

	"hypr-minimize/pkg/logger"
)

const (
	// DefaultSpecialWorkspace is the hidden workspace minimized windows are
	// parked on. Hyprland assigns negative IDs to special workspaces, which
	// is what external-restore detection relies on.
	DefaultSpecialWorkspace = "special:minimized"

	// DefaultPollInterval is how often the window state is re-checked when
	// no event arrives from the compositor.
	DefaultPollInterval = 2 * time.Second
)

// Config holds the application configuration.
type Config struct {
	// Configurable via JSON file (private fields to enforce immutability)
	specialWorkspace string
	pollInterval     time.Duration
	notifyCommand    string
	soundFile        string
	historyEnabled   bool

	log *logger.Logger
}

// New creates a new Config instance with the provided logger.
func New(log *logger.Logger) *Config {
	return &Config{log: log}
}

// GetSpecialWorkspace returns the workspace minimized windows are moved to.
func (c *Config) GetSpecialWorkspace() string {
	return c.specialWorkspace
}

// GetPollInterval returns the state poll interval.
func (c *Config) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetNotifyCommand returns the user-configured notification command.
func (c *Config) GetNotifyCommand() string {
	return c.notifyCommand
}

// GetSoundFile returns the wav file played on minimize, empty when unset.
func (c *Config) GetSoundFile() string {
	return c.soundFile
}

// HistoryEnabled reports whether minimize/restore events are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.historyEnabled
}
