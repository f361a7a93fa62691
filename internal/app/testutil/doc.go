// Package testutil provides fakes and fixtures shared by the tabscribe tests.
//
// It contains four groups of helpers:
//
// 1. Time (clock.go):
//   - FakeClock: a manual clock whose Sleep advances time instead of blocking
//
// 2. Provider doubles (mock_adapter.go):
//   - MockAdapter: a testify mock implementing provider.Adapter and provider.Poller
//   - NewResolver: a resolver over a private registry holding the given adapters
//
// 3. Stores and settings (media.go, settings.go):
//   - MemoryMediaStore: an in-memory storage.MediaStore
//   - StaticSettings: a settings loader returning fixed settings
//
// 4. Fixtures and logging (fixtures.go, logger.go):
//   - NewRecording, SeedRecording and job builders
//   - NewObservedLogger: a zap logger whose entries can be asserted on
//
// # Usage
//
//	func TestTranscribe(t *testing.T) {
//	    adapter := testutil.NewMockAdapter("mock", true)
//	    adapter.On("Submit", mock.Anything, mock.Anything, mock.Anything).
//	        Return(provider.SubmitResult{JobID: "job-1", Status: model.JobStatusProcessing})
//	    adapter.On("PollStatus", mock.Anything, "job-1").
//	        Return(provider.PollResult{Status: model.JobStatusCompleted, Text: "hi"}, nil)
//
//	    resolver := testutil.NewResolver(adapter)
//	    settings := testutil.NewStaticSettings(testutil.TranscriptionSettings("mock"))
//	    // build a jobs.Manager with resolver, settings and jobs.WithClock(testutil.NewFakeClock(...))
//	}
//
// All helpers are safe for concurrent use; polling loops run on their own goroutines.
package testutil
