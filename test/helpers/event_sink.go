package helpers

import (
	"context"
	"sync"

	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
)

// RecordingSink is a test double for telemetry.Sink that captures every
// written event in order.
type RecordingSink struct {
	mu     sync.Mutex
	events []*telemetry.Event

	// FailWrites makes WriteBatch return this error when set.
	FailWrites error
}

// NewRecordingSink creates an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// WriteBatch appends the batch to the recording.
func (s *RecordingSink) WriteBatch(ctx context.Context, events []*telemetry.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.events = append(s.events, events...)
	return nil
}

// Events returns a copy of everything written so far.
func (s *RecordingSink) Events() []*telemetry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*telemetry.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsOfType filters the recording by event type.
func (s *RecordingSink) EventsOfType(typ telemetry.EventType) []*telemetry.Event {
	var out []*telemetry.Event
	for _, e := range s.Events() {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Reset clears the recording.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
