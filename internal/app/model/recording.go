package model

import (
	"encoding/json"
	"time"
)

// RecordingSource identifies how a recording was captured
type RecordingSource string

const (
	SourceScreen RecordingSource = "screen"
	SourceTab    RecordingSource = "tab"
	SourceUpload RecordingSource = "upload"
)

// Recording is a captured media file plus its transcription state
type Recording struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Source        RecordingSource   `json:"source"`
	MimeType      string            `json:"mimeType"`
	MediaKey      string            `json:"mediaKey"`
	SizeBytes     int64             `json:"sizeBytes"`
	Duration      time.Duration     `json:"-"`
	CreatedAt     time.Time         `json:"createdAt"`
	Transcription *TranscriptionJob `json:"transcription,omitempty"`
}

// MarshalJSON encodes Duration as milliseconds
func (r Recording) MarshalJSON() ([]byte, error) {
	type plain Recording
	return json.Marshal(struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}{plain(r), r.Duration.Milliseconds()})
}

// UnmarshalJSON decodes the durationMs field back into Duration
func (r *Recording) UnmarshalJSON(data []byte) error {
	type plain Recording
	var aux struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Recording(aux.plain)
	r.Duration = time.Duration(aux.DurationMs) * time.Millisecond
	return nil
}

// Clone returns a deep copy of the recording
func (r *Recording) Clone() *Recording {
	if r == nil {
		return nil
	}
	c := *r
	c.Transcription = r.Transcription.Clone()
	return &c
}

// TranscriptionStatus returns the job status, or "" when the recording was never submitted
func (r *Recording) TranscriptionStatus() JobStatus {
	if r == nil || r.Transcription == nil {
		return ""
	}
	return r.Transcription.Status
}
