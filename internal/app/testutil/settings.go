package testutil

import (
	"sync"

	"github.com/Elandig/tabscribe/internal/config"
)

// StaticSettings returns fixed settings from Load. Err, when set, is returned instead.
type StaticSettings struct {
	mu       sync.Mutex
	settings config.Settings
	err      error
}

// NewStaticSettings creates a loader returning s
func NewStaticSettings(s config.Settings) *StaticSettings {
	return &StaticSettings{settings: s}
}

// Load returns the current settings
func (s *StaticSettings) Load() (config.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, s.err
}

// Save replaces the settings
func (s *StaticSettings) Save(settings config.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// Set replaces the settings
func (s *StaticSettings) Set(settings config.Settings) {
	_ = s.Save(settings)
}

// Fail makes the next Load calls return err
func (s *StaticSettings) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// TranscriptionSettings returns default settings with transcription enabled on providerName
func TranscriptionSettings(providerName string) config.Settings {
	s := config.DefaultSettings("testdata")
	s.Transcription.Enabled = true
	s.Transcription.Provider = providerName
	return s
}

var _ config.Store = (*StaticSettings)(nil)
