package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// Provider selection
	ErrTranscriptionUnavailable = New("transcription is not available")
	ErrTranscriptionDisabled    = New("transcription is disabled")
	ErrProviderNotFound         = New("provider not found")
	ErrMissingAPIKey            = New("API key is required")
	ErrInvalidConfig            = New("invalid configuration")

	// Lifecycle errors
	ErrRecordingNotFound = New("recording not found")
	ErrNoTranscription   = New("recording has no transcription job")
	ErrNoJobID           = New("transcription job has no remote job id")
	ErrPollUnsupported   = New("provider does not support status polling")

	// Media errors
	ErrMediaNotFound   = New("media not found")
	ErrMediaReadFailed = New("media read failed")
)

// Error carries a message and an optional cause. Two Errors match under Is
// when their messages are equal.
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Is reports whether any error in err's chain matches target.
// It mirrors the standard library so callers need a single errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As mirrors the standard library errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
