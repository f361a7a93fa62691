package model

import (
	"fmt"
	"strings"
)

// LanguageAuto asks the provider to detect the spoken language
const LanguageAuto = "auto"

// CaptureConfiguration carries the per-invocation transcription options
type CaptureConfiguration struct {
	Language         string `json:"language" yaml:"language" validate:"omitempty,max=16"`
	SpeakerLabels    bool   `json:"speakerLabels" yaml:"speaker_labels"`
	SpeakersExpected int    `json:"speakersExpected,omitempty" yaml:"speakers_expected" validate:"gte=0,lte=50"`
}

// DetectLanguage reports whether the provider should detect the language itself
func (c CaptureConfiguration) DetectLanguage() bool {
	lang := strings.TrimSpace(c.Language)
	return lang == "" || strings.EqualFold(lang, LanguageAuto)
}

// Validate checks the rules struct tags can't express
func (c CaptureConfiguration) Validate() error {
	if c.SpeakersExpected < 0 {
		return fmt.Errorf("speakers expected must be positive, got %d", c.SpeakersExpected)
	}
	return nil
}
