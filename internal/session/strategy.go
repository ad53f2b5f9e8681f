package session

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/chadananda/flashcard/internal/domain"
)

// OutcomeKind is how a presentation resolved.
type OutcomeKind int

// Outcome kinds
const (
	// OutcomeNone means the presentation failed, for example because the
	// display returned an error. The session ends.
	OutcomeNone OutcomeKind = iota
	// OutcomeCancel means the session was cancelled during the presentation.
	OutcomeCancel
	// OutcomeSkip means the card was skipped or timed out. The hand rotates.
	OutcomeSkip
	// OutcomeAnswered means the card was answered; Status says whether it is
	// complete for this session.
	OutcomeAnswered
	// OutcomeUnsupported means the card cannot be presented. It is deferred.
	OutcomeUnsupported
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeCancel:
		return "cancel"
	case OutcomeSkip:
		return "skip"
	case OutcomeAnswered:
		return "answered"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Outcome is the single result of presenting a card.
type Outcome struct {
	Kind OutcomeKind
	// Status is the card status after the presentation. It is set for
	// OutcomeSkip and OutcomeAnswered.
	Status *domain.CardStatus
	// Err explains OutcomeNone and OutcomeUnsupported.
	Err error
}

// Completed reports whether the outcome finishes the card for this session.
func (o Outcome) Completed() bool {
	return o.Kind == OutcomeAnswered && o.Status != nil && o.Status.Completed
}

// Timings holds the presentation delays.
type Timings struct {
	// CardTimeout is how long the countdown runs before the card is skipped.
	CardTimeout time.Duration
	// CountdownStep is the interval between countdown updates.
	CountdownStep time.Duration
	// SuccessDelay is how long a correct answer stays revealed.
	SuccessDelay time.Duration
	// QuestionPause follows the question clip before the countdown starts.
	QuestionPause time.Duration
	// ReplayDelay is the wait between a wrong answer and the first replay of
	// the correct answer's clip.
	ReplayDelay time.Duration
	// ReplayPause follows every replay.
	ReplayPause time.Duration
	// MaxReplays caps the replays of the correct answer.
	MaxReplays int
}

// DefaultTimings returns the standard presentation delays.
func DefaultTimings() Timings {
	return Timings{
		CardTimeout:   6 * time.Second,
		CountdownStep: time.Second,
		SuccessDelay:  400 * time.Millisecond,
		QuestionPause: 500 * time.Millisecond,
		ReplayDelay:   time.Second,
		ReplayPause:   2 * time.Second,
		MaxReplays:    5,
	}
}

// Presentation is everything a strategy needs to present one card. The
// Status is a private copy; the engine stores the one returned in the Outcome.
type Presentation struct {
	Token    Token
	Card     domain.Card
	Status   *domain.CardStatus
	Progress Progress
	Inputs   <-chan Input

	Display Display
	Audio   Audio
	Clock   Clock
	Timings Timings
	// Choices is the number of distractors offered with the correct answer.
	Choices int
	Rand    *rand.Rand
	Logger  *slog.Logger
}

// Strategy presents cards of one type. Present must return exactly one
// Outcome and must not touch the display after it returns. When ctx is done
// it returns OutcomeCancel promptly.
type Strategy interface {
	Type() domain.CardType
	Present(ctx context.Context, p *Presentation) Outcome
}

// DefaultStrategies returns a strategy for every card type.
func DefaultStrategies() []Strategy {
	return []Strategy{VocabStrategy{}, LangVocabStrategy{}, QuoteStrategy{}}
}
