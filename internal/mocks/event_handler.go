package mocks

import (
	"context"
	"sync"

	"github.com/chadananda/flashcard/internal/events"
)

// MockEventHandler implements events.EventHandler for testing
type MockEventHandler struct {
	HandleEventFn func(ctx context.Context, event *events.Event) error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventHandler = (*MockEventHandler)(nil)

// HandleEvent implements events.EventHandler
func (m *MockEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.HandleEventFn != nil {
		return m.HandleEventFn(ctx, event)
	}
	return nil
}

// Events returns a copy of the events received so far.
func (m *MockEventHandler) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}

// Types returns the type of every event received so far.
func (m *MockEventHandler) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}
