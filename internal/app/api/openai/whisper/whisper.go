package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/config"
)

// Name is the service name recorded on jobs submitted through this adapter
const Name = config.ProviderOpenAI

// RemoteTranscriber transcribes synchronously through the OpenAI audio API.
// It has no poll capability: Submit returns a terminal result.
type RemoteTranscriber struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewRemoteTranscriber creates a RemoteTranscriber from provider configuration
func NewRemoteTranscriber(cfg provider.Config) *RemoteTranscriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultOpenAITimeout
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	modelName := cfg.SpeechModel
	if modelName == "" {
		modelName = openai.Whisper1
	}

	return &RemoteTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  modelName,
	}
}

// Name implements provider.Adapter
func (rt *RemoteTranscriber) Name() string {
	return Name
}

// IsConfigured implements provider.Adapter
func (rt *RemoteTranscriber) IsConfigured() bool {
	return rt.apiKey != ""
}

// Poller implements provider.Adapter
func (rt *RemoteTranscriber) Poller() (provider.Poller, bool) {
	return nil, false
}

// Submit sends the whole media body and waits for the transcript.
// Speaker options are ignored because the endpoint has no diarization.
func (rt *RemoteTranscriber) Submit(ctx context.Context, media provider.Media, opts provider.Options) provider.SubmitResult {
	if media.Body == nil {
		return provider.Failed(newError("invalid_input", "media body is required", 0, false))
	}

	name := media.Name
	if name == "" {
		name = "recording.webm"
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: name,
		Reader:   media.Body,
		Format:   openai.AudioResponseFormatJSON,
	}
	if !opts.DetectLanguage() {
		req.Language = opts.Language
	}

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return provider.Failed(convertError(err))
	}

	return provider.SubmitResult{
		JobID:  uuid.NewString(),
		Status: model.JobStatusCompleted,
		Text:   strings.TrimSpace(resp.Text),
	}
}

// convertError maps go-openai errors onto provider.TranscriptionError
func convertError(err error) *provider.TranscriptionError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.HTTPStatusCode
		switch {
		case code == http.StatusUnauthorized:
			return newError("authentication_failed", "OpenAI API key is invalid", code, false)
		case code == http.StatusTooManyRequests:
			return newError("rate_limit_exceeded", "OpenAI API rate limit exceeded", code, true)
		case code >= 500:
			return newError("server_error", fmt.Sprintf("OpenAI server error (%d): %s", code, apiErr.Message), code, true)
		default:
			return newError("invalid_request", fmt.Sprintf("OpenAI request failed (%d): %s", code, apiErr.Message), code, false)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newError("request_failed", fmt.Sprintf("OpenAI request failed (%d): %v", reqErr.HTTPStatusCode, reqErr.Err),
			reqErr.HTTPStatusCode, reqErr.HTTPStatusCode >= 500)
	}

	return newError("network_error", fmt.Sprintf("createTranscription failed: %v", err), 0, true)
}

func newError(code, message string, statusCode int, retryable bool) *provider.TranscriptionError {
	return &provider.TranscriptionError{
		Code:       code,
		Message:    message,
		Provider:   Name,
		StatusCode: statusCode,
		Retryable:  retryable,
	}
}

var _ provider.Adapter = (*RemoteTranscriber)(nil)
