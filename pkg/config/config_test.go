package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"hypr-minimize/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(
		logger.WithLevel(zerolog.Disabled),
		logger.WithFile(filepath.Join(t.TempDir(), "test.log")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestDefaultConfig(t *testing.T) {
	require := require.New(t)
	log := newTestLogger(t)

	cfg := DefaultConfig(log)
	require.Equal(DefaultSpecialWorkspace, cfg.GetSpecialWorkspace())
	require.Equal(DefaultPollInterval, cfg.GetPollInterval())
	require.True(cfg.HistoryEnabled())
	require.Empty(cfg.GetNotifyCommand())
	require.Empty(cfg.GetSoundFile())
}

func TestLoadFromFile(t *testing.T) {
	require := require.New(t)
	log := newTestLogger(t)

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"special_workspace": "special:hidden",
		"poll_interval_seconds": 5,
		"notify_command": "my-notify",
		"sound_file": "/tmp/ding.wav",
		"history_enabled": false
	}`
	require.NoError(os.WriteFile(path, []byte(data), 0644))

	cfg := New(log)
	require.NoError(cfg.LoadFromFile(path, log))

	require.Equal("special:hidden", cfg.GetSpecialWorkspace())
	require.Equal(5*time.Second, cfg.GetPollInterval())
	require.Equal("my-notify", cfg.GetNotifyCommand())
	require.Equal("/tmp/ding.wav", cfg.GetSoundFile())
	require.False(cfg.HistoryEnabled())
}

func TestLoadFromFileDefaults(t *testing.T) {
	require := require.New(t)
	log := newTestLogger(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{}`), 0644))

	cfg := New(log)
	require.NoError(cfg.LoadFromFile(path, log))

	require.Equal(DefaultSpecialWorkspace, cfg.GetSpecialWorkspace())
	require.Equal(DefaultPollInterval, cfg.GetPollInterval())
	require.True(cfg.HistoryEnabled())
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	require := require.New(t)
	log := newTestLogger(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{not json`), 0644))

	cfg := New(log)
	require.Error(cfg.LoadFromFile(path, log))
}

func TestInitializeConfigWritesDefault(t *testing.T) {
	require := require.New(t)
	log := newTestLogger(t)

	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := initializeConfig("", path, log)
	require.NoError(err)
	require.Equal(DefaultSpecialWorkspace, cfg.GetSpecialWorkspace())

	// The default file must round-trip
	loaded, err := loadConfigFromPath(path, log)
	require.NoError(err)
	require.Equal(cfg.GetSpecialWorkspace(), loaded.GetSpecialWorkspace())
	require.Equal(cfg.GetPollInterval(), loaded.GetPollInterval())
	require.Equal(cfg.HistoryEnabled(), loaded.HistoryEnabled())
}
