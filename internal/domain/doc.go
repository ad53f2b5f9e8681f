// Package domain contains the core learning entities: cards, their type-specific
// content, and the session-scoped status that tracks answers while a card is in
// a practice hand. It is independent of scheduling policy, storage and display.
package domain
