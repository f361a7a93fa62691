package model

import (
	"time"
)

// JobStatus is the lifecycle state of a transcription job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// IsValid reports whether s is one of the four known states
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusError:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further automatic transition can occur
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// InFlight reports whether the job is still waiting on the provider
func (s JobStatus) InFlight() bool {
	return s == JobStatusPending || s == JobStatusProcessing
}

// TranscriptionJob is one attempt to transcribe a recording through one provider.
// It lives on the Recording it belongs to and is only mutated through the recording store.
type TranscriptionJob struct {
	Status      JobStatus  `json:"status"`
	Text        string     `json:"text,omitempty"`
	Error       string     `json:"error,omitempty"`
	Service     string     `json:"service"`
	JobID       string     `json:"jobId,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Clone returns a deep copy of the job
func (j *TranscriptionJob) Clone() *TranscriptionJob {
	if j == nil {
		return nil
	}
	c := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Expired reports whether the job was started longer than timeout before now
func (j *TranscriptionJob) Expired(now time.Time, timeout time.Duration) bool {
	if j == nil || j.StartedAt.IsZero() {
		return false
	}
	return now.Sub(j.StartedAt) > timeout
}
