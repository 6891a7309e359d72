package mocks

import (
	"context"
	"sync"

	"github.com/taskhive/taskhive/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records every
// emitted event for assertion.
type MockEventEmitter struct {
	// EmitEventFn allows test cases to mock the EmitEvent behavior
	EmitEventFn func(ctx context.Context, event *events.TaskEvent) error

	// Err, when set, is returned by the default implementation after
	// recording the event.
	Err error

	mu     sync.Mutex
	events []*events.TaskEvent
}

// EmitEvent implements the events.EventEmitter interface.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns the events emitted so far, in order.
func (m *MockEventEmitter) Events() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventTypes returns the types of the emitted events, in order.
func (m *MockEventEmitter) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}
