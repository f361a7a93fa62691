package provider

import (
	"context"
)

// Adapter hides one remote speech-to-text provider behind the operations the
// job manager needs. Submit never returns a Go error: every transport or
// protocol failure is reported as a SubmitResult with StatusError.
type Adapter interface {
	// Name is stored on the job as its service and used to find the adapter again on resume
	Name() string

	// IsConfigured reports whether credentials are present
	IsConfigured() bool

	// Submit uploads the media and requests a transcription
	Submit(ctx context.Context, media Media, opts Options) SubmitResult

	// Poller returns the status polling capability, if the provider has one.
	// Synchronous providers return (nil, false) and complete inside Submit.
	Poller() (Poller, bool)
}

// Poller is the optional capability of asynchronous providers
type Poller interface {
	// PollStatus fetches the current remote state of jobID, mapped to the canonical status set.
	// Transport failures are returned as errors.
	PollStatus(ctx context.Context, jobID string) (PollResult, error)
}
