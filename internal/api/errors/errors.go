package errors

import (
	"net/http"

	apperrors "github.com/Elandig/tabscribe/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// FromError converts a domain error into an APIError. Errors it does not
// recognise become internal errors with a generic message.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if apperrors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case apperrors.Is(err, apperrors.ErrRecordingNotFound):
		return &APIError{Kind: KindNotFound, Message: err.Error(), Code: "recording_not_found"}
	case apperrors.Is(err, apperrors.ErrMediaNotFound):
		return &APIError{Kind: KindNotFound, Message: err.Error(), Code: "media_not_found"}
	case apperrors.Is(err, apperrors.ErrTranscriptionUnavailable),
		apperrors.Is(err, apperrors.ErrTranscriptionDisabled),
		apperrors.Is(err, apperrors.ErrProviderNotFound),
		apperrors.Is(err, apperrors.ErrMissingAPIKey):
		return &APIError{Kind: KindServiceUnavailable, Message: err.Error(), Code: "transcription_unavailable"}
	case apperrors.Is(err, apperrors.ErrInvalidConfig):
		return &APIError{Kind: KindValidation, Message: err.Error(), Code: "invalid_config"}
	case apperrors.Is(err, apperrors.ErrNoTranscription):
		return &APIError{Kind: KindConflict, Message: err.Error(), Code: "no_transcription"}
	case apperrors.Is(err, apperrors.ErrNoJobID):
		return &APIError{Kind: KindConflict, Message: err.Error(), Code: "no_job_id"}
	case apperrors.Is(err, apperrors.ErrPollUnsupported):
		return &APIError{Kind: KindConflict, Message: err.Error(), Code: "poll_unsupported"}
	}

	return &APIError{Kind: KindInternal, Message: "Internal server error"}
}
