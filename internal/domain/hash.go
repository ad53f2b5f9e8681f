package domain

import (
	"strconv"
	"unicode/utf16"
)

// Hash32 is a 32-bit rolling string hash: h = h*31 + c over UTF-16 code units,
// wrapping at 32 bits. It is not cryptographic; equal hashes mean the same card.
func Hash32(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// CardID derives the stable identifier of a card from its content.
func CardID(content Content) string {
	return string(content.Type()) + "-" + strconv.FormatInt(int64(Hash32(content.identityKey())), 10)
}
