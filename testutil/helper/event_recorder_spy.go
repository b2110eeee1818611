package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// EventRecorderSpy is a circulation.EventRecorder that captures every recorded event.
// If failWith is set, Record still captures the event and then returns that error.
type EventRecorderSpy struct {
	events   circulation.DomainEvents
	failWith error
	mu       sync.Mutex
}

// NewEventRecorderSpy creates a new EventRecorderSpy.
func NewEventRecorderSpy() *EventRecorderSpy {
	return &EventRecorderSpy{events: make(circulation.DomainEvents, 0)}
}

// NewFailingEventRecorderSpy creates an EventRecorderSpy that rejects every event with err.
func NewFailingEventRecorderSpy(err error) *EventRecorderSpy {
	return &EventRecorderSpy{events: make(circulation.DomainEvents, 0), failWith: err}
}

// Record implements circulation.EventRecorder.
func (s *EventRecorderSpy) Record(_ context.Context, event circulation.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)

	return s.failWith
}

// GetEvents returns a copy of all captured events in recording order.
func (s *EventRecorderSpy) GetEvents() circulation.DomainEvents {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make(circulation.DomainEvents, len(s.events))
	copy(events, s.events)

	return events
}

// GetEventTypes returns the types of all captured events in recording order.
func (s *EventRecorderSpy) GetEventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	eventTypes := make([]string, 0, len(s.events))
	for _, event := range s.events {
		eventTypes = append(eventTypes, event.EventType())
	}

	return eventTypes
}

// Reset clears all captured events.
func (s *EventRecorderSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = s.events[:0]
}
