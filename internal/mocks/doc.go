// Package mocks provides centralized mock implementations for testing.
//
// Mocks come in two styles. Function-field mocks (MockDisplay, MockAudio,
// MockEventHandler) record every call and delegate to an optional Fn field.
// TestifyMockRegistry embeds testify's mock.Mock for expectation-driven
// tests.
//
// Usage:
//
//	display := &mocks.MockDisplay{
//	    ShowCardFn: func(ctx context.Context, p session.Prompt) error {
//	        return errors.New("terminal closed")
//	    },
//	}
//	engine, err := session.NewEngine(registry, display)
package mocks
