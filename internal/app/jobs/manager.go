package jobs

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/metrics"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
	"github.com/Elandig/tabscribe/internal/app/storage"
	"github.com/Elandig/tabscribe/internal/config"
)

// Failure messages written onto jobs
const (
	MsgTimedOut        = "Transcription timed out"
	MsgPollingTimedOut = "Transcription polling timed out"
	MsgClearedByUser   = "Cleared by user"
	MsgSubmitFailed    = "Transcription failed"
)

// errSuperseded aborts a store update whose job was replaced or finished meanwhile
var errSuperseded = errors.New("job superseded")

// SettingsLoader supplies the current configuration for each invocation
type SettingsLoader interface {
	Load() (config.Settings, error)
}

// AdapterResolver picks the adapter for new and existing jobs
type AdapterResolver interface {
	Resolve(settings config.TranscriptionSettings) (provider.Adapter, error)
	ResolveService(settings config.TranscriptionSettings, name string) (provider.Adapter, error)
}

// Manager owns the transcription state machine of every recording.
// The store is the source of truth: nothing is cached between calls.
type Manager struct {
	store    repository.RecordingStore
	media    storage.MediaStore
	resolver AdapterResolver
	settings SettingsLoader

	clock        Clock
	logger       *zap.Logger
	metrics      *metrics.Metrics
	events       *EventBus
	pollInterval time.Duration
	maxAttempts  int
	timeout      time.Duration

	mu      sync.Mutex
	loops   map[string]*loop
	closed  bool
	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

// Option configures a Manager
type Option func(*Manager)

func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.logger = l } }

func WithMetrics(mt *metrics.Metrics) Option { return func(m *Manager) { m.metrics = mt } }

func WithEvents(b *EventBus) Option { return func(m *Manager) { m.events = b } }

func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

func WithMaxPollAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a Manager. Background loops live until Close.
func NewManager(store repository.RecordingStore, media storage.MediaStore, resolver AdapterResolver, settings SettingsLoader, opts ...Option) *Manager {
	m := &Manager{
		store:        store,
		media:        media,
		resolver:     resolver,
		settings:     settings,
		clock:        RealClock(),
		logger:       zap.NewNop(),
		events:       NewEventBus(0),
		pollInterval: config.DefaultPollInterval,
		maxAttempts:  config.DefaultMaxPollAttempts,
		timeout:      config.DefaultJobTimeout,
		loops:        make(map[string]*loop),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.baseCtx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Events returns the bus transitions are published on
func (m *Manager) Events() *EventBus {
	return m.events
}

// Timeout returns the wall-clock window after which an in-flight job is stale
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// Available reports whether Transcribe would find a usable adapter
func (m *Manager) Available(ctx context.Context) bool {
	_, _, err := m.resolve()
	return err == nil
}

func (m *Manager) resolve() (provider.Adapter, config.Settings, error) {
	settings, err := m.settings.Load()
	if err != nil {
		return nil, settings, errors.Wrap(err, "load settings")
	}
	adapter, err := m.resolver.Resolve(settings.Transcription)
	return adapter, settings, err
}

// Transcribe starts a new job for the recording and returns once the
// provider has acknowledged (or rejected) the submission. Polling continues
// in the background. When no adapter is available the record is left
// untouched and the error wraps ErrTranscriptionUnavailable.
func (m *Manager) Transcribe(ctx context.Context, id string, opts *model.CaptureConfiguration) error {
	adapter, settings, err := m.resolve()
	if err != nil {
		m.logger.Warn("transcription unavailable", zap.String("recording_id", id), zap.Error(err))
		return err
	}

	capture := settings.Transcription.Capture
	if opts != nil {
		capture = *opts
	}
	if err := capture.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}

	service := adapter.Name()
	startedAt := m.clock.Now()

	rec, err := m.store.Update(ctx, id, func(r *model.Recording) error {
		r.Transcription = &model.TranscriptionJob{
			Status:    model.JobStatusProcessing,
			Service:   service,
			StartedAt: startedAt,
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.publish(EventTypeSubmitted, rec, "")
	m.logger.Info("submitting transcription",
		zap.String("recording_id", id),
		zap.String("service", service),
		zap.String("language", capture.Language))

	result := m.submit(ctx, adapter, rec, provider.OptionsFrom(capture))
	m.metrics.ObserveSubmission(service, result.Status)

	// the submission outcome must land even if the caller went away meanwhile
	writeCtx := context.WithoutCancel(ctx)
	rec, err = m.store.Update(writeCtx, id, func(r *model.Recording) error {
		job := r.Transcription
		if job == nil || job.Status != model.JobStatusProcessing || job.JobID != "" ||
			job.Service != service || !job.StartedAt.Equal(startedAt) {
			return errSuperseded
		}
		next := &model.TranscriptionJob{
			Status:    result.Status,
			Service:   service,
			JobID:     result.JobID,
			Text:      result.Text,
			Error:     result.Error,
			StartedAt: startedAt,
		}
		if next.Status == model.JobStatusCompleted {
			now := m.clock.Now()
			next.CompletedAt = &now
		}
		r.Transcription = next
		return nil
	})
	if errors.Is(err, errSuperseded) {
		m.logger.Info("submission superseded by a newer job", zap.String("recording_id", id))
		return nil
	}
	if err != nil {
		return err
	}

	job := rec.Transcription
	fields := []zap.Field{
		zap.String("recording_id", id),
		zap.String("job_id", job.JobID),
		zap.String("service", service),
		zap.String("status", string(job.Status)),
	}

	if job.Status.IsTerminal() {
		m.publish(EventTypeFinished, rec, job.Error)
		m.metrics.ObserveTerminal(service, job.Status, m.clock.Now().Sub(startedAt))
		if job.Status == model.JobStatusError {
			m.logger.Warn("transcription submission failed", append(fields, zap.String("error", job.Error))...)
		} else {
			m.logger.Info("transcription completed on submit", fields...)
		}
		return nil
	}
	m.publish(EventTypeUpdated, rec, "")

	if job.Status != model.JobStatusProcessing || job.JobID == "" {
		m.logger.Info("submission accepted without a pollable job", fields...)
		return nil
	}

	poller, ok := adapter.Poller()
	if !ok {
		m.logger.Warn("adapter cannot poll; job stays in flight until cleared", fields...)
		return nil
	}

	m.logger.Info("transcription submitted", fields...)
	m.startPolling(id, job.JobID, service, poller)
	return nil
}

// RetryTranscription restarts the whole lifecycle, discarding the previous job
func (m *Manager) RetryTranscription(ctx context.Context, id string, opts *model.CaptureConfiguration) error {
	return m.Transcribe(ctx, id, opts)
}

func (m *Manager) submit(ctx context.Context, adapter provider.Adapter, rec *model.Recording, opts provider.Options) provider.SubmitResult {
	body, info, err := m.media.Open(ctx, rec.MediaKey)
	if err != nil {
		err = errors.Wrap(errors.ErrMediaReadFailed, err.Error())
		return provider.Failed(err)
	}
	defer body.Close()

	contentType := rec.MimeType
	if contentType == "" {
		contentType = info.ContentType
	}

	result := adapter.Submit(ctx, provider.Media{
		Name:        path.Base(rec.MediaKey),
		ContentType: contentType,
		Size:        info.Size,
		Body:        body,
	}, opts)

	// an id paired with a malformed status cannot be trusted for polling;
	// one the provider issued alongside an error status is kept for reference
	if !result.Status.IsValid() {
		result.Status = model.JobStatusError
		result.JobID = ""
	}
	if result.Status == model.JobStatusError && result.Error == "" {
		result.Error = MsgSubmitFailed
	}
	return result
}

// CheckStatus polls the provider once and merges the answer into the stored job.
// Terminal jobs are returned as stored without a network call.
func (m *Manager) CheckStatus(ctx context.Context, id string) (*model.TranscriptionJob, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	job := rec.Transcription
	if job == nil {
		return nil, errors.Wrapf(errors.ErrNoTranscription, "recording %s", id)
	}
	if job.JobID == "" {
		return nil, errors.Wrapf(errors.ErrNoJobID, "recording %s", id)
	}
	if job.Status.IsTerminal() {
		return job, nil
	}

	settings, err := m.settings.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	adapter, err := m.resolver.ResolveService(settings.Transcription, job.Service)
	if err != nil {
		return nil, err
	}
	poller, ok := adapter.Poller()
	if !ok {
		return nil, errors.Wrapf(errors.ErrPollUnsupported, "service %s", job.Service)
	}

	result, err := poller.PollStatus(ctx, job.JobID)
	m.metrics.ObservePoll(job.Service, err)
	if err != nil {
		return nil, err
	}

	updated, err := m.apply(ctx, id, job.JobID, result.Status, result.Text, result.Error)
	if errors.Is(err, errSuperseded) {
		current, gerr := m.store.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return current.Transcription, nil
	}
	if err != nil {
		return nil, err
	}
	return updated.Transcription, nil
}

// apply merges a provider answer into the job identified by jobID.
// It refuses to touch a job that was replaced or already finished.
func (m *Manager) apply(ctx context.Context, id, jobID string, status model.JobStatus, text, errMsg string) (*model.Recording, error) {
	if !status.IsValid() {
		status = model.JobStatusPending
	}
	now := m.clock.Now()

	rec, err := m.store.Update(ctx, id, func(r *model.Recording) error {
		job := r.Transcription
		if job == nil || job.JobID != jobID || job.Status.IsTerminal() {
			return errSuperseded
		}
		merge(job, status, text, errMsg, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	job := rec.Transcription
	if job.Status.IsTerminal() {
		m.publish(EventTypeFinished, rec, job.Error)
		m.metrics.ObserveTerminal(job.Service, job.Status, now.Sub(job.StartedAt))
		m.logger.Info("transcription finished",
			zap.String("recording_id", id),
			zap.String("job_id", jobID),
			zap.String("service", job.Service),
			zap.String("status", string(job.Status)),
			zap.String("error", job.Error))
	} else {
		m.publish(EventTypeUpdated, rec, "")
	}
	return rec, nil
}

// merge updates status always, text and error only when non-empty.
// A pending answer never moves a processing job back.
// CompletedAt is set exactly when the job is completed.
func merge(job *model.TranscriptionJob, status model.JobStatus, text, errMsg string, now time.Time) {
	if status == model.JobStatusPending && job.Status == model.JobStatusProcessing {
		status = model.JobStatusProcessing
	}
	job.Status = status
	if text != "" {
		job.Text = text
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	if status == model.JobStatusCompleted {
		if job.CompletedAt == nil {
			job.CompletedAt = &now
		}
	} else {
		job.CompletedAt = nil
	}
}

func (m *Manager) publish(t EventType, rec *model.Recording, message string) {
	if m.events == nil || rec == nil {
		return
	}
	e := Event{Type: t, RecordingID: rec.ID, Message: message, Timestamp: m.clock.Now()}
	if job := rec.Transcription; job != nil {
		e.Status = job.Status
		e.Service = job.Service
		e.JobID = job.JobID
	}
	m.events.Publish(e)
}

// ActivePolls lists recordings with a live polling loop
func (m *Manager) ActivePolls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.loops))
	for id := range m.loops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Wait blocks until every background loop has returned
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close cancels all loops and waits for them. Cancelled loops write nothing,
// so their jobs stay in flight for ResumeAll.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.cancel()
	m.mu.Unlock()
	m.wg.Wait()
}
