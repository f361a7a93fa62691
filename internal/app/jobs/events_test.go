package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elandig/tabscribe/internal/app/model"
)

func TestEventBus_SequencesAndSince(t *testing.T) {
	bus := NewEventBus(10)

	first := bus.Publish(Event{Type: EventTypeSubmitted, RecordingID: "a"})
	second := bus.Publish(Event{Type: EventTypeFinished, RecordingID: "a", Status: model.JobStatusCompleted})

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.False(t, first.Timestamp.IsZero())
	assert.Equal(t, int64(2), bus.LastSeq())

	since := bus.Since(1)
	require.Len(t, since, 1)
	assert.Equal(t, EventTypeFinished, since[0].Type)
	assert.Empty(t, bus.Since(2))
}

func TestEventBus_DropsOldest(t *testing.T) {
	bus := NewEventBus(3)
	for i := 0; i < 5; i++ {
		bus.Publish(Event{Type: EventTypeUpdated})
	}

	events := bus.Since(0)
	require.Len(t, events, 3)
	assert.Equal(t, int64(3), events[0].Seq)
	assert.Equal(t, int64(5), events[2].Seq)
	assert.Equal(t, int64(5), bus.LastSeq())
}

func TestEventBus_KeepsGivenTimestamp(t *testing.T) {
	bus := NewEventBus(0)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	e := bus.Publish(Event{Type: EventTypeCleared, Timestamp: at})
	assert.Equal(t, at, e.Timestamp)
}

func TestRealClock_Sleep(t *testing.T) {
	clock := RealClock()
	assert.NoError(t, clock.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, clock.Sleep(ctx, time.Hour), context.Canceled)
	assert.Equal(t, time.UTC, clock.Now().Location())
}
