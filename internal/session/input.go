package session

import (
	"fmt"

	"github.com/google/uuid"
)

// Token identifies one presentation of one card. Generation increases with
// every presentation, so a token never matches a later showing of the same
// card.
type Token struct {
	Session    uuid.UUID
	Card       string
	Generation uint64
}

// IsZero reports whether t names no presentation.
func (t Token) IsZero() bool {
	return t.Generation == 0
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return fmt.Sprintf("%s/%s#%d", t.Session, t.Card, t.Generation)
}

// InputKind is the kind of user input.
type InputKind int

// Input kinds
const (
	// InputAnswer picks an answer; Input.Answer holds the choice text.
	InputAnswer InputKind = iota + 1
	// InputSkip moves past the card without answering.
	InputSkip
	// InputAcknowledge dismisses a revealed wrong answer.
	InputAcknowledge
)

// String implements fmt.Stringer.
func (k InputKind) String() string {
	switch k {
	case InputAnswer:
		return "answer"
	case InputSkip:
		return "skip"
	case InputAcknowledge:
		return "acknowledge"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// Input is a user action on the live card.
type Input struct {
	Token  Token
	Kind   InputKind
	Answer string
}

// Answer returns an answer input for the card named by token.
func Answer(token Token, answer string) Input {
	return Input{Token: token, Kind: InputAnswer, Answer: answer}
}

// Skip returns a skip input for the card named by token.
func Skip(token Token) Input {
	return Input{Token: token, Kind: InputSkip}
}

// Acknowledge returns an acknowledge input for the card named by token.
func Acknowledge(token Token) Input {
	return Input{Token: token, Kind: InputAcknowledge}
}
