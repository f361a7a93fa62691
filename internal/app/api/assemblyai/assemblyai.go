package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/config"
)

// Name is the service name recorded on jobs submitted through this adapter
const Name = config.ProviderAssemblyAI

// Client implements provider.Adapter and provider.Poller for the AssemblyAI v2 REST API
type Client struct {
	apiKey      string
	baseURL     string
	speechModel string
	client      *http.Client
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	LanguageCode      string `json:"language_code,omitempty"`
	LanguageDetection bool   `json:"language_detection,omitempty"`
	SpeakerLabels     bool   `json:"speaker_labels,omitempty"`
	SpeakersExpected  int    `json:"speakers_expected,omitempty"`
	Punctuate         bool   `json:"punctuate"`
	FormatText        bool   `json:"format_text"`
	SpeechModel       string `json:"speech_model,omitempty"`
}

type transcriptResponse struct {
	ID         string               `json:"id"`
	Status     string               `json:"status"`
	Text       string               `json:"text,omitempty"`
	Error      string               `json:"error,omitempty"`
	Utterances []provider.Utterance `json:"utterances,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates an AssemblyAI adapter. Missing fields fall back to the provider defaults.
func New(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultAssemblyAIBaseURL
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = config.DefaultAssemblyAISpeechModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultAssemblyAITimeout
	}

	return &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		speechModel: cfg.SpeechModel,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Name implements provider.Adapter
func (c *Client) Name() string {
	return Name
}

// IsConfigured implements provider.Adapter
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Poller implements provider.Adapter
func (c *Client) Poller() (provider.Poller, bool) {
	return c, true
}

// Submit uploads the media, then requests a transcript of the uploaded file
func (c *Client) Submit(ctx context.Context, media provider.Media, opts provider.Options) provider.SubmitResult {
	if media.Body == nil {
		return provider.Failed(c.newError("invalid_input", "media body is required", 0, false))
	}

	uploadURL, err := c.upload(ctx, media)
	if err != nil {
		return provider.Failed(err)
	}

	resp, err := c.requestTranscript(ctx, uploadURL, opts)
	if err != nil {
		return provider.Failed(err)
	}
	if resp.ID == "" {
		return provider.Failed(c.newError("response_invalid", "AssemblyAI returned no transcript id", 0, false))
	}

	result := provider.SubmitResult{
		JobID:  resp.ID,
		Status: MapStatus(resp.Status),
	}
	switch result.Status {
	case model.JobStatusCompleted:
		result.Text = renderText(resp)
	case model.JobStatusError:
		result.Error = errorMessage(resp)
	}
	return result
}

// PollStatus implements provider.Poller
func (c *Client) PollStatus(ctx context.Context, jobID string) (provider.PollResult, error) {
	if jobID == "" {
		return provider.PollResult{}, c.newError("invalid_input", "job id is required", 0, false)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return provider.PollResult{}, c.newError("request_creation_error", fmt.Sprintf("failed to create HTTP request: %v", err), 0, false)
	}

	var resp transcriptResponse
	if err := c.do(req, &resp); err != nil {
		return provider.PollResult{}, err
	}

	result := provider.PollResult{Status: MapStatus(resp.Status)}
	switch result.Status {
	case model.JobStatusCompleted:
		result.Text = renderText(&resp)
	case model.JobStatusError:
		result.Error = errorMessage(&resp)
	}
	return result, nil
}

// MapStatus maps AssemblyAI's status vocabulary onto the canonical job states.
// Unknown values map to pending so newer provider states don't fail jobs.
func MapStatus(status string) model.JobStatus {
	switch status {
	case "queued", "processing":
		return model.JobStatusProcessing
	case "completed":
		return model.JobStatusCompleted
	case "error":
		return model.JobStatusError
	default:
		return model.JobStatusPending
	}
}

func (c *Client) upload(ctx context.Context, media provider.Media) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", media.Body)
	if err != nil {
		return "", c.newError("request_creation_error", fmt.Sprintf("failed to create upload request: %v", err), 0, false)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if media.Size > 0 {
		req.ContentLength = media.Size
	}

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", c.newError("response_invalid", "AssemblyAI returned no upload url", 0, false)
	}
	return resp.UploadURL, nil
}

func (c *Client) requestTranscript(ctx context.Context, audioURL string, opts provider.Options) (*transcriptResponse, error) {
	body := transcriptRequest{
		AudioURL:    audioURL,
		Punctuate:   true,
		FormatText:  true,
		SpeechModel: c.speechModel,
	}
	if opts.DetectLanguage() {
		body.LanguageDetection = true
	} else {
		body.LanguageCode = opts.Language
	}
	if opts.SpeakerLabels {
		body.SpeakerLabels = true
		if opts.SpeakersExpected > 0 {
			body.SpeakersExpected = opts.SpeakersExpected
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, c.newError("request_creation_error", fmt.Sprintf("failed to encode request: %v", err), 0, false)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return nil, c.newError("request_creation_error", fmt.Sprintf("failed to create HTTP request: %v", err), 0, false)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp transcriptResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends an authorized request and decodes a JSON response into out
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("User-Agent", "tabscribe/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.newError("network_error", fmt.Sprintf("failed to call AssemblyAI API: %v", err), 0, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleHTTPError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.newError("response_parse_error", fmt.Sprintf("failed to parse API response: %v", err), resp.StatusCode, false)
	}
	return nil
}

// handleHTTPError converts a non-2xx response into a TranscriptionError
func (c *Client) handleHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	detail := strings.TrimSpace(string(body))
	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		detail = parsed.Error
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return c.newError("authentication_failed", "AssemblyAI API key is invalid or missing", resp.StatusCode, false)
	case resp.StatusCode == http.StatusTooManyRequests:
		return c.newError("rate_limit_exceeded", "AssemblyAI API rate limit exceeded", resp.StatusCode, true)
	case resp.StatusCode >= 500:
		return c.newError("server_error", fmt.Sprintf("AssemblyAI server error (%d): %s", resp.StatusCode, detail), resp.StatusCode, true)
	default:
		return c.newError("invalid_request", fmt.Sprintf("AssemblyAI request failed (%d): %s", resp.StatusCode, detail), resp.StatusCode, false)
	}
}

func (c *Client) newError(code, message string, statusCode int, retryable bool) *provider.TranscriptionError {
	return &provider.TranscriptionError{
		Code:       code,
		Message:    message,
		Provider:   Name,
		StatusCode: statusCode,
		Retryable:  retryable,
	}
}

func renderText(resp *transcriptResponse) string {
	if len(resp.Utterances) > 0 {
		return provider.FormatUtterances(resp.Utterances)
	}
	return resp.Text
}

func errorMessage(resp *transcriptResponse) string {
	if resp.Error != "" {
		return resp.Error
	}
	return "Transcription failed"
}

var (
	_ provider.Adapter = (*Client)(nil)
	_ provider.Poller  = (*Client)(nil)
)
