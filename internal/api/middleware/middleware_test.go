package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Elandig/tabscribe/internal/api/errors"
	apperrors "github.com/Elandig/tabscribe/internal/app/errors"
)

type payload struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count" binding:"gte=0,lte=5"`
}

func (p *payload) Validate() error {
	if p.Name == "forbidden" {
		return errors.NewValidationError("name not allowed", map[string]string{"name": "is reserved"})
	}
	return nil
}

func newRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), StructuredLogging(logger), ErrorHandler(logger))
	return r
}

func TestRequestID_ReusesHeader(t *testing.T) {
	r := newRouter(zap.NewNop())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestHandleError_MapsDomainErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(zap.New(core))
	r.GET("/missing", func(c *gin.Context) {
		HandleError(c, apperrors.Wrapf(apperrors.ErrRecordingNotFound, "get %s", "r9"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body errors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.KindNotFound, body.Kind)
	assert.NotEmpty(t, body.RequestID)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "recording not found")
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(zap.New(core))
	r.GET("/boom", func(c *gin.Context) { panic(apperrors.New("kaboom")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Equal(t, 1, logs.FilterMessage("Internal server error").Len())
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{"valid", `{"name":"ok","count":2}`, false, ""},
		{"missing name", `{"count":2}`, true, "name"},
		{"count too large", `{"name":"ok","count":9}`, true, "count"},
		{"domain rule", `{"name":"forbidden"}`, true, "name"},
		{"bad json", `{"name":`, true, "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var p payload
			err := ValidateRequest(c, &p)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, errors.KindValidation, apiErr.Kind)
			assert.Contains(t, apiErr.Details, tt.field)
		})
	}
}

func TestValidateOptionalRequest_EmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	var p payload
	present, err := ValidateOptionalRequest(c, &p)
	assert.False(t, present)
	assert.NoError(t, err)
}

func TestCORS_AllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{http.MethodGet},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	assert.Empty(t, w.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, w.Header().Get("Access-Control-Expose-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
