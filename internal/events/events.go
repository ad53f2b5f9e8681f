package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeSessionStarted  = "session.started"
	TypeCardRescheduled = "card.rescheduled"
	TypeCardRetired     = "card.retired"
	TypeSessionEnded    = "session.ended"
	TypeCardsDue        = "cards.due"
)

// Event is a notification about something that happened to a session or a
// card. Payload holds one of the payload structs in this package, encoded as
// JSON.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// SessionID is the session the event belongs to, or uuid.Nil
	SessionID uuid.UUID `json:"session_id,omitempty"`

	// CardID is set for card events
	CardID string `json:"card_id,omitempty"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// SessionStarted is the payload of TypeSessionStarted.
type SessionStarted struct {
	Total int      `json:"total"`
	Hand  []string `json:"hand"`
}

// CardRescheduled is the payload of TypeCardRescheduled.
type CardRescheduled struct {
	Passed   bool `json:"passed"`
	Level    int  `json:"level"`
	Schedule int  `json:"schedule"`
}

// CardRetired is the payload of TypeCardRetired.
type CardRetired struct {
	Day int `json:"day"`
}

// SessionEnded is the payload of TypeSessionEnded.
type SessionEnded struct {
	Reason      string `json:"reason"`
	Completed   int    `json:"completed"`
	Rescheduled int    `json:"rescheduled"`
	Retired     int    `json:"retired"`
	Deferred    int    `json:"deferred"`
	Remaining   int    `json:"remaining"`
}

// CardsDue is the payload of TypeCardsDue.
type CardsDue struct {
	Today int `json:"today"`
	Count int `json:"count"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, sessionID uuid.UUID, cardID string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		SessionID: sessionID,
		CardID:    cardID,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *Event) error { return nil }
