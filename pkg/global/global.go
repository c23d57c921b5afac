package global

import (
	"sync"

	"hypr-minimize/pkg/config"
	"hypr-minimize/pkg/logger"
	"hypr-minimize/pkg/notify"
	"hypr-minimize/pkg/sound"
)

var (
	cfg           *config.Config
	log           *logger.Logger
	notifier      *notify.NotifyService
	soundNotifier *sound.SoundNotifier
	initOnce      sync.Once
	mu            sync.RWMutex
)

// InitGlobals wires up the shared config, logger, notifier and sound
// services. Safe to call more than once; only the first call takes effect.
func InitGlobals(config *config.Config, logger *logger.Logger) {
	initOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		cfg = config
		log = logger
		notifier = notify.NewNotifyService(config.GetNotifyCommand(), logger)

		sn, err := sound.NewSoundNotifier(config.GetSoundFile())
		if err != nil {
			logger.Error("Failed to initialize sound notifier", err)
		} else {
			soundNotifier = sn
		}
	})
}

// GetConfig returns the global config instance
func GetConfig() *config.Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetLogger returns the global logger instance
func GetLogger() *logger.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// GetNotifier returns the global notifier instance
func GetNotifier() *notify.NotifyService {
	mu.RLock()
	defer mu.RUnlock()
	return notifier
}

// GetSoundNotifier returns the sound notifier, nil when no sound is configured
func GetSoundNotifier() *sound.SoundNotifier {
	mu.RLock()
	defer mu.RUnlock()
	return soundNotifier
}
