package services

import (
	"context"
	"io"

	"github.com/Elandig/tabscribe/internal/api/v1/dto"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/storage"
)

// RecordingService defines the interface for the recording library
type RecordingService interface {
	ListRecordings(ctx context.Context, query dto.ListRecordingsQuery) (*dto.RecordingListResponse, error)
	GetRecording(ctx context.Context, id string) (*model.Recording, error)
	UploadRecording(ctx context.Context, fileName string, body io.Reader, form dto.UploadForm) (*model.Recording, error)
	OpenMedia(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Recording, error)
	GetTranscript(ctx context.Context, id string) (*dto.TranscriptResponse, error)
	DeleteRecording(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (*dto.DeletedResponse, error)
	Export(ctx context.Context, format string, w io.Writer) error
}

// TranscriptionService defines the interface for transcription job operations
type TranscriptionService interface {
	Transcribe(ctx context.Context, id string, capture *model.CaptureConfiguration) (*dto.TranscriptionResponse, error)
	Retry(ctx context.Context, id string, capture *model.CaptureConfiguration) (*dto.TranscriptionResponse, error)
	CheckStatus(ctx context.Context, id string) (*dto.TranscriptionResponse, error)
	ClearAll(ctx context.Context) (*dto.ClearResponse, error)
	ClearTimedOut(ctx context.Context) (*dto.ClearResponse, error)
	Availability(ctx context.Context) (*dto.AvailabilityResponse, error)
	Events(since int64) *dto.EventsResponse
}

// SettingsService defines the interface for configuration operations
type SettingsService interface {
	GetSettings(ctx context.Context) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, body []byte) (*dto.SettingsResponse, error)
}
