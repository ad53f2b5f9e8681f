package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash32(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected int32
	}{
		{name: "empty string hashes to zero", input: "", expected: 0},
		{name: "single character", input: "a", expected: 97},
		{name: "two characters", input: "ab", expected: 3105},
		{name: "word", input: "hello", expected: 99162322},
		{name: "wraps at 32 bits", input: "polygenelubricants", expected: -2147483648},
		{name: "surrogate pair counts as two code units", input: "😀", expected: 1772899},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Hash32(tc.input))
		})
	}
}

func TestHash32_Collisions(t *testing.T) {
	t.Parallel()

	// Colliding keys map to the same card by design.
	assert.Equal(t, Hash32("Aa"), Hash32("BB"))
}

func TestCardID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vocab-3105", CardID(&VocabContent{Question: "a", Answer: "b"}))
	assert.Equal(t, "lang_vocab-3105", CardID(&LangVocabContent{Words: [2]string{"a", "b"}}))
	assert.Equal(t, "quote-99162322", CardID(&QuoteContent{Quote: "hello"}))
	assert.Equal(t, "quote-0", CardID(&QuoteContent{}))

	// Description, distractors and audio do not take part in identity.
	assert.Equal(t,
		CardID(&VocabContent{Question: "a", Answer: "b"}),
		CardID(&VocabContent{Question: "a", Answer: "b", Incorrect: []string{"x"}, Audio: []string{"a.mp3"}}),
	)
}
