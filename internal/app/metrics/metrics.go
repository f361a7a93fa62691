package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Elandig/tabscribe/internal/app/model"
)

const namespace = "tabscribe"

// Metrics holds the job lifecycle collectors on a private registry.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	submissions *prometheus.CounterVec
	polls       *prometheus.CounterVec
	terminal    *prometheus.CounterVec
	cleared     *prometheus.CounterVec
	activePolls prometheus.Gauge
	jobDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with Go runtime collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_submissions_total",
			Help:      "Transcription submissions by service and resulting status.",
		}, []string{"service", "status"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_polls_total",
			Help:      "Status polls by service and outcome.",
		}, []string{"service", "outcome"}),
		terminal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_jobs_finished_total",
			Help:      "Jobs that reached a terminal state.",
		}, []string{"service", "status"}),
		cleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_jobs_cleared_total",
			Help:      "In-flight jobs force-failed by cleanup.",
		}, []string{"reason"}),
		activePolls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transcription_active_polls",
			Help:      "Polling loops currently running.",
		}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_job_duration_seconds",
			Help:      "Time from submission to terminal state.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"service", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions, m.polls, m.terminal, m.cleared, m.activePolls, m.jobDuration,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSubmission(service string, status model.JobStatus) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(service, string(status)).Inc()
}

func (m *Metrics) ObservePoll(service string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.polls.WithLabelValues(service, outcome).Inc()
}

// ObserveTerminal records a job reaching completed or error after elapsed
func (m *Metrics) ObserveTerminal(service string, status model.JobStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.terminal.WithLabelValues(service, string(status)).Inc()
	if elapsed > 0 {
		m.jobDuration.WithLabelValues(service, string(status)).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveCleared(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cleared.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) SetActivePolls(n int) {
	if m == nil {
		return
	}
	m.activePolls.Set(float64(n))
}
