package session

import (
	"context"
	"fmt"

	"github.com/chadananda/flashcard/internal/domain"
)

// VocabStrategy presents single-direction multiple-choice cards.
//
// Each answer is appended to the card's only history. The card is complete
// once the last three answers are correct, and passes if no answer in the
// session was wrong.
type VocabStrategy struct{}

// Type implements Strategy.
func (VocabStrategy) Type() domain.CardType { return domain.CardTypeVocab }

// Present implements Strategy.
func (VocabStrategy) Present(ctx context.Context, p *Presentation) Outcome {
	if _, ok := p.Card.Content.(*domain.VocabContent); !ok {
		return mismatch(p)
	}

	return presentChoice(ctx, p, 0, func(status *domain.CardStatus, correct bool) bool {
		status.Record(correct)
		return false
	})
}

// LangVocabStrategy presents word pairs in both directions.
//
// Status.L1 is the direction under test. Completing direction 0 flips the
// card to direction 1 instead of completing it, so a card is only complete
// once both directions are mastered and its pass reflects direction 1 alone.
type LangVocabStrategy struct{}

// Type implements Strategy.
func (LangVocabStrategy) Type() domain.CardType { return domain.CardTypeLangVocab }

// Present implements Strategy.
func (LangVocabStrategy) Present(ctx context.Context, p *Presentation) Outcome {
	if _, ok := p.Card.Content.(*domain.LangVocabContent); !ok {
		return mismatch(p)
	}

	return presentChoice(ctx, p, p.Status.L1, func(status *domain.CardStatus, correct bool) bool {
		status.Record(correct)
		if status.Completed && status.L1 == 0 {
			status.Flip()
			return true
		}
		return false
	})
}

// QuoteStrategy is the placeholder for quote cards. Quotes have no
// presentation yet; every quote card is reported unsupported and deferred.
type QuoteStrategy struct{}

// Type implements Strategy.
func (QuoteStrategy) Type() domain.CardType { return domain.CardTypeQuote }

// Present implements Strategy.
func (QuoteStrategy) Present(context.Context, *Presentation) Outcome {
	return Outcome{Kind: OutcomeUnsupported, Err: ErrUnsupportedCardType}
}

func mismatch(p *Presentation) Outcome {
	return Outcome{
		Kind: OutcomeUnsupported,
		Err:  fmt.Errorf("%w: card %s", domain.ErrContentTypeMismatch, p.Card.ID),
	}
}
