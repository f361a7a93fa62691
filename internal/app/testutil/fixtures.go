package testutil

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
	"github.com/Elandig/tabscribe/internal/app/storage"
)

// Epoch is the fixed start time used by fixtures and fake clocks
var Epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// SampleMedia is a few bytes standing in for a webm capture
var SampleMedia = []byte("\x1a\x45\xdf\xa3tabscribe-test-media")

// NewRecording returns a tab recording with a media key derived from id
func NewRecording(id string, createdAt time.Time) *model.Recording {
	return &model.Recording{
		ID:        id,
		Title:     "Recording " + id,
		Source:    model.SourceTab,
		MimeType:  "audio/webm",
		MediaKey:  storage.NewKey(id, "capture.webm"),
		SizeBytes: int64(len(SampleMedia)),
		Duration:  90 * time.Second,
		CreatedAt: createdAt,
	}
}

// SeedRecording stores rec and, when media is non-nil, its sample media
func SeedRecording(t testing.TB, store repository.RecordingStore, media storage.MediaStore, rec *model.Recording) *model.Recording {
	t.Helper()
	ctx := context.Background()
	if media != nil {
		_, err := media.Save(ctx, rec.MediaKey, bytes.NewReader(SampleMedia), int64(len(SampleMedia)), rec.MimeType)
		require.NoError(t, err)
	}
	require.NoError(t, store.Put(ctx, rec))
	return rec
}

// ProcessingJob returns an in-flight job with a remote id
func ProcessingJob(service, jobID string, startedAt time.Time) *model.TranscriptionJob {
	return &model.TranscriptionJob{
		Status:    model.JobStatusProcessing,
		Service:   service,
		JobID:     jobID,
		StartedAt: startedAt,
	}
}

// CompletedJob returns a finished job carrying text
func CompletedJob(service, jobID, text string, startedAt time.Time) *model.TranscriptionJob {
	done := startedAt.Add(time.Minute)
	return &model.TranscriptionJob{
		Status:      model.JobStatusCompleted,
		Service:     service,
		JobID:       jobID,
		Text:        text,
		StartedAt:   startedAt,
		CompletedAt: &done,
	}
}

// FailedJob returns a job in error state without a remote id
func FailedJob(service, message string, startedAt time.Time) *model.TranscriptionJob {
	return &model.TranscriptionJob{
		Status:    model.JobStatusError,
		Service:   service,
		Error:     message,
		StartedAt: startedAt,
	}
}
