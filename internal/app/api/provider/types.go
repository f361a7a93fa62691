package provider

import (
	"io"
	"time"

	"github.com/Elandig/tabscribe/internal/app/model"
)

// Media is the finite binary payload handed to a provider
type Media struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Options carries the language and speaker settings of one submission
type Options struct {
	Language         string
	SpeakerLabels    bool
	SpeakersExpected int
}

// OptionsFrom converts a capture configuration into submission options
func OptionsFrom(c model.CaptureConfiguration) Options {
	return Options{
		Language:         c.Language,
		SpeakerLabels:    c.SpeakerLabels,
		SpeakersExpected: c.SpeakersExpected,
	}
}

// DetectLanguage reports whether the provider should detect the language itself
func (o Options) DetectLanguage() bool {
	return model.CaptureConfiguration{Language: o.Language}.DetectLanguage()
}

// SubmitResult is the outcome of a submission
type SubmitResult struct {
	JobID  string
	Status model.JobStatus
	Text   string
	Error  string
}

// Failed builds an error-status submission result
func Failed(err error) SubmitResult {
	return SubmitResult{Status: model.JobStatusError, Error: err.Error()}
}

// PollResult is the outcome of one status poll
type PollResult struct {
	Status model.JobStatus
	Text   string
	Error  string
}

// Utterance is one speaker-attributed segment of a transcript.
// Start and End are in milliseconds.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
}

// Config is what a factory needs to build an adapter
type Config struct {
	APIKey      string
	BaseURL     string
	SpeechModel string
	Timeout     time.Duration
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Provider   string `json:"provider"`
	StatusCode int    `json:"status_code,omitempty"`
	Retryable  bool   `json:"retryable"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}
