package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
	"github.com/Elandig/tabscribe/internal/app/testutil"
)

func TestResumePolling_ExpiredJobTimesOutWithoutNetwork(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-1", testutil.ProcessingJob(mockService, "job-1", testutil.Epoch.Add(-11*time.Minute)))

	running, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.NoError(t, err)
	assert.False(t, running)

	job := f.job(t, "rec-1")
	assert.Equal(t, model.JobStatusError, job.Status)
	assert.Equal(t, MsgTimedOut, job.Error)
	assert.Equal(t, "job-1", job.JobID)
	assert.Nil(t, job.CompletedAt)
	f.adapter.AssertNotCalled(t, "PollStatus", mock.Anything, mock.Anything)
}

func TestResumePolling_RestartsLoop(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-1", testutil.ProcessingJob(mockService, "job-1", testutil.Epoch.Add(-2*time.Minute)))
	pollReturns(f.adapter, "job-1", provider.PollResult{Status: model.JobStatusCompleted, Text: "resumed"}, nil).Once()

	running, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.NoError(t, err)
	assert.True(t, running)
	require.NoError(t, f.manager.WaitFor(f.ctx, "rec-1"))

	job := f.job(t, "rec-1")
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, "resumed", job.Text)
	require.NotNil(t, job.CompletedAt)
}

func TestResumePolling_ExactlyAtTimeoutStillPolls(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-1", testutil.ProcessingJob(mockService, "job-1", testutil.Epoch.Add(-10*time.Minute)))
	pollReturns(f.adapter, "job-1", provider.PollResult{Status: model.JobStatusCompleted, Text: "edge"}, nil).Once()

	running, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.NoError(t, err)
	assert.True(t, running)
	require.NoError(t, f.manager.WaitFor(f.ctx, "rec-1"))
	assert.Equal(t, "edge", f.job(t, "rec-1").Text)
}

func TestResumePolling_NoOps(t *testing.T) {
	tests := []struct {
		name string
		job  *model.TranscriptionJob
	}{
		{name: "never submitted", job: nil},
		{name: "completed", job: testutil.CompletedJob(mockService, "job-1", "final", testutil.Epoch.Add(-time.Hour))},
		{name: "failed", job: testutil.FailedJob(mockService, "boom", testutil.Epoch.Add(-time.Hour))},
		{name: "no remote id", job: &model.TranscriptionJob{Status: model.JobStatusProcessing, Service: mockService, StartedAt: testutil.Epoch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.seed(t, "rec-1", tt.job.Clone())

			running, err := f.manager.ResumePolling(f.ctx, "rec-1")
			require.NoError(t, err)
			assert.False(t, running)

			assert.Equal(t, tt.job, f.job(t, "rec-1"))
			assert.Empty(t, f.manager.ActivePolls())
			f.adapter.AssertNotCalled(t, "PollStatus", mock.Anything, mock.Anything)
		})
	}
}

func TestResumePolling_SameJobKeepsSingleLoop(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-1", testutil.ProcessingJob(mockService, "job-1", testutil.Epoch))
	pollBlocks(f.adapter, "job-1")

	first, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.NoError(t, err)
	second, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.True(t, second)
	assert.Equal(t, []string{"rec-1"}, f.manager.ActivePolls())
}

func TestResumePolling_AdapterUnavailable(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-1", testutil.ProcessingJob("retired-service", "job-1", testutil.Epoch))

	running, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTranscriptionUnavailable))
	assert.False(t, running)
	assert.Equal(t, model.JobStatusProcessing, f.job(t, "rec-1").Status)
}

func TestResumePolling_UnknownRecording(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.manager.ResumePolling(f.ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestResumeAll(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-live", testutil.ProcessingJob(mockService, "job-live", testutil.Epoch.Add(-time.Minute)))
	f.seed(t, "rec-stale", testutil.ProcessingJob(mockService, "job-stale", testutil.Epoch.Add(-30*time.Minute)))
	f.seed(t, "rec-orphan", &model.TranscriptionJob{Status: model.JobStatusPending, Service: mockService, StartedAt: testutil.Epoch})
	f.seed(t, "rec-done", testutil.CompletedJob(mockService, "job-done", "final", testutil.Epoch.Add(-time.Hour)))
	f.seed(t, "rec-new", nil)

	pollReturns(f.adapter, "job-live", provider.PollResult{Status: model.JobStatusCompleted, Text: "live"}, nil).Once()

	resumed, err := f.manager.ResumeAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)
	f.manager.Wait()

	assert.Equal(t, "live", f.job(t, "rec-live").Text)
	assert.Equal(t, MsgTimedOut, f.job(t, "rec-stale").Error)
	assert.Equal(t, model.JobStatusPending, f.job(t, "rec-orphan").Status)
	assert.Equal(t, "final", f.job(t, "rec-done").Text)
	assert.Nil(t, f.job(t, "rec-new"))
	f.adapter.AssertNumberOfCalls(t, "PollStatus", 1)
}

func TestWaitFor_ReturnsOnContextDone(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, "rec-1", testutil.ProcessingJob(mockService, "job-1", testutil.Epoch))
	pollBlocks(f.adapter, "job-1")

	running, err := f.manager.ResumePolling(f.ctx, "rec-1")
	require.NoError(t, err)
	require.True(t, running)

	ctx, cancel := context.WithTimeout(f.ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.manager.WaitFor(ctx, "rec-1"), context.DeadlineExceeded)

	assert.NoError(t, f.manager.WaitFor(f.ctx, "rec-without-loop"))
}
