package jobs

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
)

// ClearAllInProgressTranscriptions fails every pending or processing job
// and returns how many were changed
func (m *Manager) ClearAllInProgressTranscriptions(ctx context.Context) (int, error) {
	return m.clear(ctx, "user", MsgClearedByUser, func(*model.TranscriptionJob) bool { return true })
}

// ClearTimedOutTranscriptions fails in-flight jobs started more than the timeout ago
func (m *Manager) ClearTimedOutTranscriptions(ctx context.Context) (int, error) {
	now := m.clock.Now()
	return m.clear(ctx, "timeout", MsgTimedOut, func(job *model.TranscriptionJob) bool {
		return job.Expired(now, m.timeout)
	})
}

func (m *Manager) clear(ctx context.Context, reason, message string, match func(*model.TranscriptionJob) bool) (int, error) {
	recordings, err := m.store.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	candidates := lo.Filter(recordings, func(r *model.Recording, _ int) bool {
		return r.TranscriptionStatus().InFlight() && match(r.Transcription)
	})

	now := m.clock.Now()
	cleared := 0
	for _, candidate := range candidates {
		m.stopPolling(candidate.ID)

		rec, err := m.store.Update(ctx, candidate.ID, func(r *model.Recording) error {
			job := r.Transcription
			if job == nil || !job.Status.InFlight() || !match(job) {
				return errSuperseded
			}
			merge(job, model.JobStatusError, "", message, now)
			return nil
		})
		if errors.Is(err, errSuperseded) || errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return cleared, err
		}

		cleared++
		m.publish(EventTypeCleared, rec, message)
	}

	m.metrics.ObserveCleared(reason, cleared)
	m.logger.Info("cleared in-flight transcriptions", zap.String("reason", reason), zap.Int("count", cleared))
	return cleared, nil
}
