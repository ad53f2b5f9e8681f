package mocks

import (
	"context"
	"sync"

	"github.com/chadananda/flashcard/internal/session"
)

// MockDisplay implements session.Display for testing
type MockDisplay struct {
	ShowCardFn      func(ctx context.Context, prompt session.Prompt) error
	ShowCountdownFn func(ctx context.Context, countdown session.Countdown) error
	ShowResultFn    func(ctx context.Context, result session.Result) error
	ShowCompleteFn  func(ctx context.Context, summary session.Summary) error

	mu         sync.Mutex
	prompts    []session.Prompt
	countdowns []session.Countdown
	results    []session.Result
	summaries  []session.Summary
}

var _ session.Display = (*MockDisplay)(nil)

// ShowCard implements session.Display
func (m *MockDisplay) ShowCard(ctx context.Context, prompt session.Prompt) error {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.ShowCardFn != nil {
		return m.ShowCardFn(ctx, prompt)
	}
	return nil
}

// ShowCountdown implements session.Display
func (m *MockDisplay) ShowCountdown(ctx context.Context, countdown session.Countdown) error {
	m.mu.Lock()
	m.countdowns = append(m.countdowns, countdown)
	m.mu.Unlock()

	if m.ShowCountdownFn != nil {
		return m.ShowCountdownFn(ctx, countdown)
	}
	return nil
}

// ShowResult implements session.Display
func (m *MockDisplay) ShowResult(ctx context.Context, result session.Result) error {
	m.mu.Lock()
	m.results = append(m.results, result)
	m.mu.Unlock()

	if m.ShowResultFn != nil {
		return m.ShowResultFn(ctx, result)
	}
	return nil
}

// ShowComplete implements session.Display
func (m *MockDisplay) ShowComplete(ctx context.Context, summary session.Summary) error {
	m.mu.Lock()
	m.summaries = append(m.summaries, summary)
	m.mu.Unlock()

	if m.ShowCompleteFn != nil {
		return m.ShowCompleteFn(ctx, summary)
	}
	return nil
}

// Prompts returns a copy of every prompt shown so far.
func (m *MockDisplay) Prompts() []session.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.Prompt(nil), m.prompts...)
}

// Countdowns returns a copy of every countdown shown so far.
func (m *MockDisplay) Countdowns() []session.Countdown {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.Countdown(nil), m.countdowns...)
}

// Results returns a copy of every result shown so far.
func (m *MockDisplay) Results() []session.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.Result(nil), m.results...)
}

// Summaries returns a copy of every completion screen shown so far.
func (m *MockDisplay) Summaries() []session.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.Summary(nil), m.summaries...)
}
