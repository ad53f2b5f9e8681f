package domain

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// CardType identifies the content variant of a card and the strategy used to
// present it.
type CardType string

// Known card types
const (
	CardTypeVocab     CardType = "vocab"
	CardTypeLangVocab CardType = "lang_vocab"
	// CardTypeQuote is a placeholder variant; it has no presentation logic yet.
	CardTypeQuote CardType = "quote"
)

// CardTypes returns every known card type.
func CardTypes() []CardType {
	return []CardType{CardTypeVocab, CardTypeLangVocab, CardTypeQuote}
}

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeVocab, CardTypeLangVocab, CardTypeQuote:
		return true
	default:
		return false
	}
}

// Importable reports whether cards of this type are accepted from a card store.
func (t CardType) Importable() bool {
	return t == CardTypeVocab || t == CardTypeLangVocab
}

// ParseCardType converts s into a CardType.
func ParseCardType(s string) (CardType, error) {
	t := CardType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCardType, s)
	}
	return t, nil
}

// Content is the type-specific payload of a card. The set of implementations
// is closed: VocabContent, LangVocabContent and QuoteContent.
type Content interface {
	// Type returns the card type this content belongs to.
	Type() CardType

	// Directions returns how many testing directions the content supports.
	Directions() int

	// Face returns what is shown and expected when testing in direction d.
	Face(d int) Face

	// AudioFiles lists the audio clips referenced by Face clip indexes.
	AudioFiles() []string

	// identityKey is the text hashed into the card ID.
	identityKey() string
}

// NoClip marks a Face without an audio clip.
const NoClip = -1

// Face is one testable side of a card.
type Face struct {
	Question    string
	Answer      string
	Description string
	Lang        string
	Distractors []string

	// QuestionClip and AnswerClip index into Content.AudioFiles, or NoClip.
	QuestionClip int
	AnswerClip   int
}

// VocabContent is a single-direction multiple-choice vocabulary item.
type VocabContent struct {
	Question    string   `json:"question" yaml:"question" validate:"required"`
	Answer      string   `json:"answer" yaml:"answer" validate:"required"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Incorrect   []string `json:"incorrect" yaml:"incorrect" validate:"dive,required"`
	Audio       []string `json:"audio,omitempty" yaml:"audio,omitempty"`
}

// Type implements Content.
func (c *VocabContent) Type() CardType { return CardTypeVocab }

// Directions implements Content.
func (c *VocabContent) Directions() int { return 1 }

// AudioFiles implements Content.
func (c *VocabContent) AudioFiles() []string { return c.Audio }

// Face implements Content. The direction is ignored.
func (c *VocabContent) Face(int) Face {
	clip := NoClip
	if len(c.Audio) > 0 && c.Audio[0] != "" {
		clip = 0
	}
	return Face{
		Question:     c.Question,
		Answer:       c.Answer,
		Description:  c.Description,
		Distractors:  c.Incorrect,
		QuestionClip: clip,
		AnswerClip:   clip,
	}
}

func (c *VocabContent) identityKey() string { return c.Question + c.Answer }

// LangVocabContent pairs a word in two languages and is tested in both
// directions. Index 0 and 1 name the two sides of the pair.
type LangVocabContent struct {
	Words       [2]string   `json:"words" yaml:"words" validate:"dive,required"`
	Lang        [2]string   `json:"lang,omitempty" yaml:"lang,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Incorrect   [2][]string `json:"incorrect" yaml:"incorrect" validate:"dive,dive,required"`
	Audio       [2]string   `json:"audio,omitempty" yaml:"audio,omitempty"`
}

// Type implements Content.
func (c *LangVocabContent) Type() CardType { return CardTypeLangVocab }

// Directions implements Content.
func (c *LangVocabContent) Directions() int { return 2 }

// AudioFiles implements Content.
func (c *LangVocabContent) AudioFiles() []string { return c.Audio[:] }

// Face implements Content. Direction d shows Words[d] and expects Words[1-d].
func (c *LangVocabContent) Face(d int) Face {
	other := 1 - d
	return Face{
		Question:     c.Words[d],
		Answer:       c.Words[other],
		Description:  c.Description,
		Lang:         c.Lang[d],
		Distractors:  c.Incorrect[other],
		QuestionClip: clipIndex(c.Audio, d),
		AnswerClip:   clipIndex(c.Audio, other),
	}
}

func (c *LangVocabContent) identityKey() string { return c.Words[0] + c.Words[1] }

func clipIndex(audio [2]string, d int) int {
	if audio[d] == "" {
		return NoClip
	}
	return d
}

// QuoteContent is a quotation to memorise.
type QuoteContent struct {
	Quote  string `json:"quote" yaml:"quote" validate:"required"`
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
}

// Type implements Content.
func (c *QuoteContent) Type() CardType { return CardTypeQuote }

// Directions implements Content.
func (c *QuoteContent) Directions() int { return 1 }

// AudioFiles implements Content.
func (c *QuoteContent) AudioFiles() []string { return nil }

// Face implements Content.
func (c *QuoteContent) Face(int) Face {
	return Face{Question: c.Quote, Description: c.Author, QuestionClip: NoClip, AnswerClip: NoClip}
}

func (c *QuoteContent) identityKey() string { return c.Quote }

// Card is a single learnable unit with its scheduling metadata.
//
// Level indexes the interval table and Schedule is the day bucket on which the
// card next becomes due. Both are changed only by the scheduler; Content is
// never changed once the card exists.
type Card struct {
	ID       string   `json:"id"`
	Type     CardType `json:"type"`
	Level    int      `json:"level"`
	Schedule int      `json:"schedule"`
	Content  Content  `json:"content"`
}

// NewCard creates a card for content with a content-derived ID at level 0.
// The schedule is left at 0 (always due) until a registry stamps it.
func NewCard(content Content) (*Card, error) {
	if content == nil {
		return nil, ErrCardContentEmpty
	}

	card := &Card{
		ID:      CardID(content),
		Type:    content.Type(),
		Content: content,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCardType, c.Type)
	}

	if c.Content == nil {
		return ErrCardContentEmpty
	}

	if c.Content.Type() != c.Type {
		return fmt.Errorf("%w: %s card with %s content", ErrContentTypeMismatch, c.Type, c.Content.Type())
	}

	if c.Level < 0 {
		return ErrInvalidLevel
	}

	if err := validate.Struct(c.Content); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return nil
}

// ValidateChoices checks that every testing direction has at least n distinct
// incorrect answers to draw distractors from.
func (c *Card) ValidateChoices(n int) error {
	if c.Content == nil {
		return ErrCardContentEmpty
	}
	if c.Type == CardTypeQuote {
		return nil
	}

	for d := 0; d < c.Content.Directions(); d++ {
		face := c.Content.Face(d)
		if got := len(DistinctDistractors(face.Answer, face.Distractors)); got < n {
			return fmt.Errorf("%w: card %s direction %d has %d, need %d",
				ErrInsufficientChoices, c.ID, d, got, n)
		}
	}

	return nil
}

// DistinctDistractors returns pool without duplicates and without the correct answer.
func DistinctDistractors(answer string, pool []string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, p := range pool {
		if p == answer {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// NewContent returns an empty content value for t, ready to be decoded into.
func NewContent(t CardType) (Content, error) {
	switch t {
	case CardTypeVocab:
		return &VocabContent{}, nil
	case CardTypeLangVocab:
		return &LangVocabContent{}, nil
	case CardTypeQuote:
		return &QuoteContent{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCardType, t)
	}
}

// UnmarshalJSON decodes a card, choosing the content variant from its type.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Type     CardType        `json:"type"`
		Level    int             `json:"level"`
		Schedule int             `json:"schedule"`
		Content  json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	content, err := NewContent(raw.Type)
	if err != nil {
		return err
	}
	if len(raw.Content) > 0 {
		if err := json.Unmarshal(raw.Content, content); err != nil {
			return fmt.Errorf("decode %s content: %w", raw.Type, err)
		}
	}

	c.ID = raw.ID
	c.Type = raw.Type
	c.Level = raw.Level
	c.Schedule = raw.Schedule
	c.Content = content
	return nil
}
