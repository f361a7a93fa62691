package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/model"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveSubmission("assemblyai", model.JobStatusProcessing)
	m.ObserveSubmission("assemblyai", model.JobStatusProcessing)
	m.ObservePoll("assemblyai", nil)
	m.ObservePoll("assemblyai", errors.New("boom"))
	m.ObserveTerminal("assemblyai", model.JobStatusCompleted, 42*time.Second)
	m.ObserveCleared("user", 3)
	m.ObserveCleared("timeout", 0)
	m.SetActivePolls(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("assemblyai", "processing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls.WithLabelValues("assemblyai", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls.WithLabelValues("assemblyai", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.terminal.WithLabelValues("assemblyai", "completed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cleared.WithLabelValues("user")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activePolls))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubmission("x", model.JobStatusError)
		m.ObservePoll("x", nil)
		m.ObserveTerminal("x", model.JobStatusError, time.Second)
		m.ObserveCleared("user", 1)
		m.SetActivePolls(1)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSubmission("openai", model.JobStatusCompleted)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tabscribe_transcription_submissions_total{service="openai",status="completed"} 1`)
}
