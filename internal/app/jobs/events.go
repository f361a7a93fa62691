package jobs

import (
	"sync"
	"time"

	"github.com/Elandig/tabscribe/internal/app/model"
)

// EventType classifies lifecycle events
type EventType string

const (
	EventTypeSubmitted EventType = "submitted"
	EventTypeUpdated   EventType = "updated"
	EventTypeFinished  EventType = "finished"
	EventTypeCleared   EventType = "cleared"
)

// Event is a sequenced job transition consumed by UI subscribers
type Event struct {
	Seq         int64           `json:"seq"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        EventType       `json:"type"`
	RecordingID string          `json:"recordingId"`
	Status      model.JobStatus `json:"status,omitempty"`
	Service     string          `json:"service,omitempty"`
	JobID       string          `json:"jobId,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// EventBus stores recent events and provides incremental reads
type EventBus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
}

// NewEventBus creates a bounded in-memory event buffer
func NewEventBus(maxEvents int) *EventBus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &EventBus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Publish appends one event and assigns sequence and timestamp
func (b *EventBus) Publish(event Event) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	return event
}

// Since returns events with sequence strictly greater than seq
func (b *EventBus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}

// LastSeq returns the sequence number of the newest event
func (b *EventBus) LastSeq() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nextSeq
}
