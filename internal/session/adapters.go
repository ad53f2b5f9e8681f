package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chadananda/flashcard/internal/domain"
)

// Progress counts cards finished so far against the session size.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Prompt is a card ready to be shown.
type Prompt struct {
	Token       Token
	CardID      string
	Type        domain.CardType
	Direction   int
	Question    string
	Description string
	Lang        string
	// Choices is the shuffled list of answers. Displays number them from 1.
	Choices  []string
	HasAudio bool
	Progress Progress
}

// Countdown reports the time left before the live card is skipped.
type Countdown struct {
	Token     Token
	Remaining time.Duration
	Total     time.Duration
}

// Result reveals the outcome of an answer. It is always shown before the
// engine moves to the next card.
type Result struct {
	Token   Token
	CardID  string
	Chosen  string
	Answer  string
	Correct bool
	// Flipped is set when the answer completed the first direction of a
	// two-way card and testing moves to the other direction.
	Flipped bool
	// AwaitAck is set when the card stays up until the user acknowledges the
	// correct answer.
	AwaitAck bool
}

// EndReason says why a session stopped.
type EndReason string

// End reasons
const (
	EndFinished  EndReason = "finished"
	EndCancelled EndReason = "cancelled"
	EndAborted   EndReason = "aborted"
)

// Summary is shown on the completion screen.
type Summary struct {
	SessionID   uuid.UUID
	Reason      EndReason
	Total       int
	Completed   int
	Rescheduled int
	Retired     int
	Deferred    int
	// Remaining counts cards still in the hand or backlog when the session stopped.
	Remaining int
	Duration  time.Duration
}

// Display renders cards and the completion screen. User input comes back
// through Engine.Submit and Engine.Cancel, never through return values.
type Display interface {
	ShowCard(ctx context.Context, prompt Prompt) error
	ShowCountdown(ctx context.Context, countdown Countdown) error
	ShowResult(ctx context.Context, result Result) error
	ShowComplete(ctx context.Context, summary Summary) error
}

// Audio loads and plays the clips of cards in the hand. It is best effort:
// errors are logged and never stop a presentation.
type Audio interface {
	// Preload prepares the clips of a card entering the hand.
	Preload(ctx context.Context, cardID string, files []string) error
	// Unload releases the clips of a card leaving the hand.
	Unload(cardID string)
	// Play blocks until the clip finishes or ctx is done.
	Play(ctx context.Context, cardID string, clip int) error
}

// NopAudio is the Audio used when none is configured.
type NopAudio struct{}

// Preload implements Audio.
func (NopAudio) Preload(context.Context, string, []string) error { return nil }

// Unload implements Audio.
func (NopAudio) Unload(string) {}

// Play implements Audio.
func (NopAudio) Play(context.Context, string, int) error { return nil }
