package services

import (
	"context"

	"github.com/samber/lo"

	"github.com/Elandig/tabscribe/internal/api/v1/dto"
	"github.com/Elandig/tabscribe/internal/app/jobs"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
)

// TranscriptionServiceImpl implements TranscriptionService on top of the job manager
type TranscriptionServiceImpl struct {
	manager  *jobs.Manager
	store    repository.RecordingStore
	settings jobs.SettingsLoader
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(manager *jobs.Manager, store repository.RecordingStore, settings jobs.SettingsLoader) TranscriptionService {
	return &TranscriptionServiceImpl{
		manager:  manager,
		store:    store,
		settings: settings,
	}
}

// Transcribe submits a new job and returns the job as stored after submission
func (s *TranscriptionServiceImpl) Transcribe(ctx context.Context, id string, capture *model.CaptureConfiguration) (*dto.TranscriptionResponse, error) {
	if err := s.manager.Transcribe(ctx, id, capture); err != nil {
		return nil, err
	}
	return s.current(ctx, id)
}

// Retry discards the previous job and submits a new one
func (s *TranscriptionServiceImpl) Retry(ctx context.Context, id string, capture *model.CaptureConfiguration) (*dto.TranscriptionResponse, error) {
	if err := s.manager.RetryTranscription(ctx, id, capture); err != nil {
		return nil, err
	}
	return s.current(ctx, id)
}

// CheckStatus polls the provider once for the recording's job
func (s *TranscriptionServiceImpl) CheckStatus(ctx context.Context, id string) (*dto.TranscriptionResponse, error) {
	job, err := s.manager.CheckStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TranscriptionResponse{
		RecordingID:   id,
		Transcription: job,
		Polling:       s.polling(id),
	}, nil
}

// ClearAll fails every in-flight job
func (s *TranscriptionServiceImpl) ClearAll(ctx context.Context) (*dto.ClearResponse, error) {
	n, err := s.manager.ClearAllInProgressTranscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ClearResponse{Cleared: n, Message: jobs.MsgClearedByUser}, nil
}

// ClearTimedOut fails in-flight jobs older than the timeout
func (s *TranscriptionServiceImpl) ClearTimedOut(ctx context.Context) (*dto.ClearResponse, error) {
	n, err := s.manager.ClearTimedOutTranscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ClearResponse{Cleared: n, Message: jobs.MsgTimedOut}, nil
}

// Availability reports whether transcription can be started
func (s *TranscriptionServiceImpl) Availability(ctx context.Context) (*dto.AvailabilityResponse, error) {
	settings, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		Available: s.manager.Available(ctx),
		Enabled:   settings.Transcription.Enabled,
		Provider:  settings.Transcription.Provider,
	}, nil
}

// Events returns job events newer than since
func (s *TranscriptionServiceImpl) Events(since int64) *dto.EventsResponse {
	bus := s.manager.Events()
	return &dto.EventsResponse{
		Events:  bus.Since(since),
		LastSeq: bus.LastSeq(),
	}
}

func (s *TranscriptionServiceImpl) current(ctx context.Context, id string) (*dto.TranscriptionResponse, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TranscriptionResponse{
		RecordingID:   id,
		Transcription: rec.Transcription,
		Polling:       s.polling(id),
	}, nil
}

func (s *TranscriptionServiceImpl) polling(id string) bool {
	return lo.Contains(s.manager.ActivePolls(), id)
}
