package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
)

type loop struct {
	jobID  string
	cancel context.CancelFunc
	done   chan struct{}
}

// startPolling ensures exactly one loop runs for the recording. A loop for the
// same job is left alone; a loop for an older job is cancelled and replaced.
// It reports whether a loop is running for jobID afterwards.
func (m *Manager) startPolling(recordingID, jobID, service string, poller provider.Poller) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}
	if existing, ok := m.loops[recordingID]; ok {
		if existing.jobID == jobID {
			return true
		}
		existing.cancel()
	}

	ctx, cancel := context.WithCancel(m.baseCtx)
	l := &loop{jobID: jobID, cancel: cancel, done: make(chan struct{})}
	m.loops[recordingID] = l
	m.metrics.SetActivePolls(len(m.loops))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.removeLoop(recordingID, l)
		m.poll(ctx, recordingID, jobID, service, poller)
	}()
	return true
}

func (m *Manager) removeLoop(recordingID string, l *loop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.cancel()
	close(l.done)
	if m.loops[recordingID] == l {
		delete(m.loops, recordingID)
	}
	m.metrics.SetActivePolls(len(m.loops))
}

// stopPolling cancels the loop of a recording, if any
func (m *Manager) stopPolling(recordingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loops[recordingID]; ok {
		l.cancel()
	}
}

// WaitFor blocks until the recording has no live loop or ctx is done
func (m *Manager) WaitFor(ctx context.Context, recordingID string) error {
	for {
		m.mu.Lock()
		l, ok := m.loops[recordingID]
		m.mu.Unlock()
		if !ok {
			return nil
		}
		select {
		case <-l.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// poll drives one job to a terminal state. It re-reads the store before every
// attempt and stops silently once the job was replaced or finished elsewhere.
func (m *Manager) poll(ctx context.Context, id, jobID, service string, poller provider.Poller) {
	log := m.logger.With(zap.String("recording_id", id), zap.String("job_id", jobID), zap.String("service", service))
	log.Debug("polling started", zap.Int("max_attempts", m.maxAttempts), zap.Duration("interval", m.pollInterval))

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		rec, err := m.store.Get(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("polling stopped: recording unavailable", zap.Error(err))
			}
			return
		}
		job := rec.Transcription
		if job == nil || job.JobID != jobID || job.Status.IsTerminal() {
			log.Debug("polling stopped: job no longer current")
			return
		}

		result, err := poller.PollStatus(ctx, jobID)
		if ctx.Err() != nil {
			return
		}
		m.metrics.ObservePoll(service, err)
		if err != nil {
			log.Warn("poll failed", zap.Int("attempt", attempt), zap.Error(err))
			m.finalize(ctx, id, jobID, err.Error())
			return
		}

		updated, err := m.apply(ctx, id, jobID, result.Status, result.Text, result.Error)
		if err != nil {
			if !errors.Is(err, errSuperseded) && ctx.Err() == nil {
				log.Error("failed to persist poll result", zap.Error(err))
			}
			return
		}
		if updated.Transcription.Status.IsTerminal() {
			return
		}

		if attempt < m.maxAttempts {
			if err := m.clock.Sleep(ctx, m.pollInterval); err != nil {
				return
			}
		}
	}

	log.Warn("polling attempts exhausted", zap.Int("attempts", m.maxAttempts))
	m.finalize(ctx, id, jobID, MsgPollingTimedOut)
}

// finalize marks an in-flight job as error
func (m *Manager) finalize(ctx context.Context, id, jobID, message string) {
	_, err := m.apply(ctx, id, jobID, model.JobStatusError, "", message)
	if err != nil && !errors.Is(err, errSuperseded) && ctx.Err() == nil {
		m.logger.Error("failed to finalize job",
			zap.String("recording_id", id), zap.String("job_id", jobID), zap.Error(err))
	}
}

// ResumePolling re-attaches to a job left in flight by an earlier process.
// Terminal jobs and jobs without a remote id are left alone; stale jobs are
// failed without contacting the provider. It reports whether a loop is running.
func (m *Manager) ResumePolling(ctx context.Context, id string) (bool, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return false, err
	}

	job := rec.Transcription
	if job == nil || !job.Status.InFlight() {
		return false, nil
	}
	if job.JobID == "" {
		m.logger.Debug("nothing to resume: job has no remote id", zap.String("recording_id", id))
		return false, nil
	}

	if job.Expired(m.clock.Now(), m.timeout) {
		m.logger.Info("resumed job expired",
			zap.String("recording_id", id),
			zap.String("job_id", job.JobID),
			zap.Time("started_at", job.StartedAt))
		_, err := m.apply(ctx, id, job.JobID, model.JobStatusError, "", MsgTimedOut)
		if errors.Is(err, errSuperseded) {
			return false, nil
		}
		return false, err
	}

	settings, err := m.settings.Load()
	if err != nil {
		return false, errors.Wrap(err, "load settings")
	}
	adapter, err := m.resolver.ResolveService(settings.Transcription, job.Service)
	if err != nil {
		m.logger.Warn("cannot resume: adapter unavailable",
			zap.String("recording_id", id), zap.String("service", job.Service), zap.Error(err))
		return false, err
	}
	poller, ok := adapter.Poller()
	if !ok {
		return false, nil
	}

	m.logger.Info("resuming polling",
		zap.String("recording_id", id), zap.String("job_id", job.JobID), zap.String("service", job.Service))
	return m.startPolling(id, job.JobID, job.Service, poller), nil
}

// ResumeAll calls ResumePolling for every in-flight job and returns how many loops run
func (m *Manager) ResumeAll(ctx context.Context) (int, error) {
	recordings, err := m.store.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	resumed := 0
	for _, rec := range recordings {
		if !rec.TranscriptionStatus().InFlight() {
			continue
		}
		running, err := m.ResumePolling(ctx, rec.ID)
		if err != nil {
			m.logger.Warn("resume failed", zap.String("recording_id", rec.ID), zap.Error(err))
			continue
		}
		if running {
			resumed++
		}
	}
	return resumed, nil
}
