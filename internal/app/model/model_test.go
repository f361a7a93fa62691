package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_Classification(t *testing.T) {
	tests := []struct {
		status   JobStatus
		valid    bool
		terminal bool
		inFlight bool
	}{
		{JobStatusPending, true, false, true},
		{JobStatusProcessing, true, false, true},
		{JobStatusCompleted, true, true, false},
		{JobStatusError, true, true, false},
		{JobStatus("queued"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.inFlight, tt.status.InFlight())
		})
	}
}

func TestTranscriptionJob_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	job := &TranscriptionJob{StartedAt: now.Add(-11 * time.Minute)}
	assert.True(t, job.Expired(now, 10*time.Minute))

	job.StartedAt = now.Add(-9 * time.Minute)
	assert.False(t, job.Expired(now, 10*time.Minute))

	assert.False(t, (&TranscriptionJob{}).Expired(now, time.Minute), "zero start never expires")
	assert.False(t, (*TranscriptionJob)(nil).Expired(now, time.Minute))
}

func TestRecording_CloneIsDeep(t *testing.T) {
	done := time.Now()
	rec := &Recording{
		ID: "r1",
		Transcription: &TranscriptionJob{
			Status:      JobStatusCompleted,
			CompletedAt: &done,
		},
	}

	c := rec.Clone()
	c.Transcription.Status = JobStatusError
	*c.Transcription.CompletedAt = done.Add(time.Hour)

	assert.Equal(t, JobStatusCompleted, rec.Transcription.Status)
	assert.Equal(t, done, *rec.Transcription.CompletedAt)
}

func TestRecording_JSONDurationMillis(t *testing.T) {
	rec := Recording{ID: "r1", Title: "standup", Duration: 65 * time.Second}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"durationMs":65000`)

	var decoded Recording
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec.Duration, decoded.Duration)
	assert.Equal(t, "standup", decoded.Title)
}

func TestCaptureConfiguration(t *testing.T) {
	assert.True(t, CaptureConfiguration{}.DetectLanguage())
	assert.True(t, CaptureConfiguration{Language: "AUTO"}.DetectLanguage())
	assert.False(t, CaptureConfiguration{Language: "en"}.DetectLanguage())

	assert.NoError(t, CaptureConfiguration{SpeakerLabels: true, SpeakersExpected: 3}.Validate())
	assert.Error(t, CaptureConfiguration{SpeakersExpected: -1}.Validate())
}
