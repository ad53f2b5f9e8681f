package mocks

import (
	"context"
	"sync"

	"github.com/chadananda/flashcard/internal/session"
)

// MockAudio implements session.Audio for testing
type MockAudio struct {
	PreloadFn func(ctx context.Context, cardID string, files []string) error
	PlayFn    func(ctx context.Context, cardID string, clip int) error

	// Call tracking for verification
	Calls struct {
		mu       sync.Mutex
		Preload  []string
		Unload   []string
		Play     []string
		PlayClip []int
	}
}

var _ session.Audio = (*MockAudio)(nil)

// Preload implements session.Audio
func (m *MockAudio) Preload(ctx context.Context, cardID string, files []string) error {
	m.Calls.mu.Lock()
	m.Calls.Preload = append(m.Calls.Preload, cardID)
	m.Calls.mu.Unlock()

	if m.PreloadFn != nil {
		return m.PreloadFn(ctx, cardID, files)
	}
	return nil
}

// Unload implements session.Audio
func (m *MockAudio) Unload(cardID string) {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	m.Calls.Unload = append(m.Calls.Unload, cardID)
}

// Play implements session.Audio
func (m *MockAudio) Play(ctx context.Context, cardID string, clip int) error {
	m.Calls.mu.Lock()
	m.Calls.Play = append(m.Calls.Play, cardID)
	m.Calls.PlayClip = append(m.Calls.PlayClip, clip)
	m.Calls.mu.Unlock()

	if m.PlayFn != nil {
		return m.PlayFn(ctx, cardID, clip)
	}
	return nil
}

// Preloaded returns the ids passed to Preload, in order.
func (m *MockAudio) Preloaded() []string {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return append([]string(nil), m.Calls.Preload...)
}

// Unloaded returns the ids passed to Unload, in order.
func (m *MockAudio) Unloaded() []string {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return append([]string(nil), m.Calls.Unload...)
}
