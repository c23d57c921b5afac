package sound

import (
	"fmt"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// SoundNotifier plays a user-configured wav file on minimize/restore.
type SoundNotifier struct {
	path string
}

// NewSoundNotifier initializes the audio backend for the given wav file.
// Returns nil without error when no sound file is configured.
func NewSoundNotifier(path string) (*SoundNotifier, error) {
	if path == "" {
		return nil, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sound file not accessible: %w", err)
	}

	if err := speaker.Init(44100, 4096); err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}

	return &SoundNotifier{path: path}, nil
}

// Play decodes and plays the configured wav file. Playback is fire and
// forget; decode errors are returned, playback errors are not observable.
func (s *SoundNotifier) Play() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}

	streamer, _, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode WAV: %w", err)
	}

	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		streamer.Close()
		f.Close()
	})))

	return nil
}
