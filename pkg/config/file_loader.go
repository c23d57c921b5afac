package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hypr-minimize/pkg/logger"
)

// fileSchema mirrors the JSON layout of the config file.
type fileSchema struct {
	SpecialWorkspace    string `json:"special_workspace"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	NotifyCommand       string `json:"notify_command"`
	SoundFile           string `json:"sound_file"`
	HistoryEnabled      *bool  `json:"history_enabled"`
}

// LoadFromFile loads the configuration from a JSON file.
func (c *Config) LoadFromFile(path string, log *logger.Logger) error {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read config file", err, "path", path)
		return err
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	var temp fileSchema
	if err := json.Unmarshal(data, &temp); err != nil {
		log.Error("Failed to parse config JSON", err)
		return err
	}
	log.Debug("Config JSON parsed successfully")

	c.specialWorkspace = temp.SpecialWorkspace
	if c.specialWorkspace == "" {
		c.specialWorkspace = DefaultSpecialWorkspace
	}
	c.pollInterval = time.Duration(temp.PollIntervalSeconds) * time.Second
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	c.notifyCommand = temp.NotifyCommand
	c.soundFile = temp.SoundFile
	c.historyEnabled = true
	if temp.HistoryEnabled != nil {
		c.historyEnabled = *temp.HistoryEnabled
	}

	return nil
}

// loadConfigFromPath loads the configuration from a file.
func loadConfigFromPath(path string, log *logger.Logger) (*Config, error) {
	config := &Config{log: log}
	if err := config.LoadFromFile(path, log); err != nil {
		return nil, err
	}
	return config, nil
}

// initializeConfig creates or loads the configuration.
func initializeConfig(providedPath string, defaultPath string, log *logger.Logger) (*Config, error) {
	if providedPath != "" {
		config, err := loadConfigFromPath(providedPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from provided path: %w", err)
		}
		return config, nil
	}

	// Try default path, create if doesn't exist
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		config := DefaultConfig(log)
		if err := config.writeTo(defaultPath); err != nil {
			return nil, err
		}
		return config, nil
	}

	config, err := loadConfigFromPath(defaultPath, log)
	if err != nil {
		log.Warn("Falling back to default configuration", "path", defaultPath)
		return DefaultConfig(log), nil
	}
	return config, nil
}

// writeTo persists the configuration as indented JSON.
func (c *Config) writeTo(path string) error {
	temp := fileSchema{
		SpecialWorkspace:    c.specialWorkspace,
		PollIntervalSeconds: int(c.pollInterval / time.Second),
		NotifyCommand:       c.notifyCommand,
		SoundFile:           c.soundFile,
		HistoryEnabled:      &c.historyEnabled,
	}
	data, err := json.MarshalIndent(temp, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindConfig locates and initializes the configuration.
func FindConfig(providedPath string, log *logger.Logger) (*Config, error) {
	log.Debug("Looking for configuration", "provided_path", providedPath)

	homeConfigDir, err := os.UserConfigDir()
	if err != nil {
		log.Error("Failed to get user config directory", err)
		return nil, err
	}

	defaultConfigDir := filepath.Join(homeConfigDir, "hypr-minimize")
	defaultConfigPath := filepath.Join(defaultConfigDir, "config.json")

	log.Debug("Configuration paths",
		"config_dir", defaultConfigDir,
		"config_path", defaultConfigPath)

	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		log.Error("Failed to create config directory", err, "path", defaultConfigDir)
		return nil, err
	}

	return initializeConfig(providedPath, defaultConfigPath, log)
}
