package dto

import (
	"github.com/Elandig/tabscribe/internal/api/errors"
	"github.com/Elandig/tabscribe/internal/app/jobs"
	"github.com/Elandig/tabscribe/internal/app/model"
)

// TranscribeRequest overrides the configured capture options for one job.
// An empty body uses the settings.
type TranscribeRequest struct {
	Language         string `json:"language" binding:"omitempty,max=16"`
	SpeakerLabels    bool   `json:"speakerLabels"`
	SpeakersExpected int    `json:"speakersExpected" binding:"gte=0,lte=50"`
}

// Validate performs domain-specific validation
func (r *TranscribeRequest) Validate() error {
	if err := r.Capture().Validate(); err != nil {
		return errors.NewValidationError("Invalid transcription request", map[string]string{
			"speakersexpected": err.Error(),
		})
	}
	return nil
}

// Capture converts the request into capture options
func (r *TranscribeRequest) Capture() *model.CaptureConfiguration {
	return &model.CaptureConfiguration{
		Language:         r.Language,
		SpeakerLabels:    r.SpeakerLabels,
		SpeakersExpected: r.SpeakersExpected,
	}
}

// TranscriptionResponse wraps the job of one recording
type TranscriptionResponse struct {
	RecordingID   string                  `json:"recordingId"`
	Transcription *model.TranscriptionJob `json:"transcription"`
	Polling       bool                    `json:"polling"`
}

// ClearResponse reports how many in-flight jobs were failed
type ClearResponse struct {
	Cleared int    `json:"cleared"`
	Message string `json:"message"`
}

// AvailabilityResponse tells the UI whether to offer transcription
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Enabled   bool   `json:"enabled"`
	Provider  string `json:"provider,omitempty"`
}

// EventsQuery selects events newer than Since
type EventsQuery struct {
	Since int64 `form:"since" binding:"gte=0"`
}

// EventsResponse is the body of GET /events
type EventsResponse struct {
	Events  []jobs.Event `json:"events"`
	LastSeq int64        `json:"lastSeq"`
}
