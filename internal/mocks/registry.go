package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/domain/srs"
	"github.com/chadananda/flashcard/internal/session"
)

// TestifyMockRegistry is a mock of session.Registry for use with testify/mock
type TestifyMockRegistry struct {
	mock.Mock
}

var _ session.Registry = (*TestifyMockRegistry)(nil)

// Get is a mock implementation of session.Registry.Get
func (m *TestifyMockRegistry) Get(id string) (domain.Card, error) {
	args := m.Called(id)
	if card, ok := args.Get(0).(domain.Card); ok {
		return card, args.Error(1)
	}
	return domain.Card{}, args.Error(1)
}

// Due is a mock implementation of session.Registry.Due
func (m *TestifyMockRegistry) Due(today int) []string {
	args := m.Called(today)
	if ids, ok := args.Get(0).([]string); ok {
		return ids
	}
	return nil
}

// Today is a mock implementation of session.Registry.Today
func (m *TestifyMockRegistry) Today() int {
	args := m.Called()
	return args.Int(0)
}

// AddCards is a mock implementation of session.Registry.AddCards
func (m *TestifyMockRegistry) AddCards(cards []domain.Card) []string {
	args := m.Called(cards)
	if ids, ok := args.Get(0).([]string); ok {
		return ids
	}
	return nil
}

// Reschedule is a mock implementation of session.Registry.Reschedule
func (m *TestifyMockRegistry) Reschedule(id string, passed bool, today int) (srs.Result, error) {
	args := m.Called(id, passed, today)
	if result, ok := args.Get(0).(srs.Result); ok {
		return result, args.Error(1)
	}
	return srs.Result{}, args.Error(1)
}
