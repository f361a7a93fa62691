package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/model"
)

// TestRemoteTranscriber_Submit tests the synchronous submission path
func TestRemoteTranscriber_Submit(t *testing.T) {
	tests := []struct {
		name          string
		language      string
		mockResponse  string
		mockStatus    int
		expectedText  string
		expectedLang  string
		expectError   bool
		errorContains string
	}{
		{
			name:         "successful transcription",
			language:     "auto",
			mockResponse: `{"text": "This is a test transcription"}`,
			mockStatus:   http.StatusOK,
			expectedText: "This is a test transcription",
		},
		{
			name:         "explicit language is forwarded",
			language:     "fr",
			mockResponse: `{"text": "  Bonjour à tous  "}`,
			mockStatus:   http.StatusOK,
			expectedText: "Bonjour à tous",
			expectedLang: "fr",
		},
		{
			name:          "API error - unauthorized",
			mockResponse:  `{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`,
			mockStatus:    http.StatusUnauthorized,
			expectError:   true,
			errorContains: "API key",
		},
		{
			name:          "API error - rate limit",
			mockResponse:  `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`,
			mockStatus:    http.StatusTooManyRequests,
			expectError:   true,
			errorContains: "rate limit",
		},
		{
			name:          "API error - server error",
			mockResponse:  `{"error": {"message": "Internal server error", "type": "server_error"}}`,
			mockStatus:    http.StatusInternalServerError,
			expectError:   true,
			errorContains: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLanguage, gotModel, gotFile string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-api-key" {
					t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
				}
				if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if err := r.ParseMultipartForm(32 << 20); err != nil {
					t.Errorf("failed to parse multipart form: %v", err)
				}
				gotLanguage = r.FormValue("language")
				gotModel = r.FormValue("model")
				if file, _, err := r.FormFile("file"); err == nil {
					body, _ := io.ReadAll(file)
					gotFile = string(body)
					file.Close()
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.mockStatus)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			rt := NewRemoteTranscriber(provider.Config{APIKey: "test-api-key", BaseURL: server.URL + "/v1"})
			result := rt.Submit(context.Background(), provider.Media{
				Name: "clip.webm",
				Body: strings.NewReader("audio-bytes"),
			}, provider.Options{Language: tt.language})

			if tt.expectError {
				assert.Equal(t, model.JobStatusError, result.Status)
				assert.Contains(t, result.Error, tt.errorContains)
				assert.Empty(t, result.Text)
				return
			}

			assert.Equal(t, model.JobStatusCompleted, result.Status)
			assert.Equal(t, tt.expectedText, result.Text)
			_, err := uuid.Parse(result.JobID)
			assert.NoError(t, err, "job id is a uuid")

			assert.Equal(t, tt.expectedLang, gotLanguage)
			assert.Equal(t, "whisper-1", gotModel)
			assert.Equal(t, "audio-bytes", gotFile)
		})
	}
}

func TestRemoteTranscriber_Capabilities(t *testing.T) {
	rt := NewRemoteTranscriber(provider.Config{})
	assert.Equal(t, Name, rt.Name())
	assert.False(t, rt.IsConfigured())

	poller, ok := rt.Poller()
	assert.False(t, ok, "openai transcription is synchronous")
	assert.Nil(t, poller)

	assert.True(t, NewRemoteTranscriber(provider.Config{APIKey: "sk-x"}).IsConfigured())
}

// TestRemoteTranscriber_Timeout tests request timeout handling
func TestRemoteTranscriber_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"text": "Should timeout"}`))
	}))
	defer server.Close()

	rt := NewRemoteTranscriber(provider.Config{
		APIKey:  "test-api-key",
		BaseURL: server.URL + "/v1",
		Timeout: 50 * time.Millisecond,
	})

	result := rt.Submit(context.Background(), provider.Media{Body: strings.NewReader("x")}, provider.Options{})
	require.Equal(t, model.JobStatusError, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestRemoteTranscriber_RegisteredInDefaultRegistry(t *testing.T) {
	assert.Contains(t, provider.DefaultRegistry().Names(), Name)
}
