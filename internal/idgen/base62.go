package idgen

import (
	"errors"
	"fmt"
)

// Alphabet order matters: digits, then lowercase, then uppercase. Codes are
// case-sensitive and generated codes are padded to CodeWidth so every value
// the counter produces keeps a constant width.
const (
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	base      = int64(len(alphabet))
	CodeWidth = 7
)

var ErrInvalidCode = errors.New("code contains characters outside the base62 alphabet")

var alphabetIndex [256]int64

func init() {
	for i := range alphabetIndex {
		alphabetIndex[i] = -1
	}
	for i := int64(0); i < base; i++ {
		alphabetIndex[alphabet[i]] = i
	}
}

// Encode converts a non-negative integer to its base62 representation,
// left-padded with the alphabet's first symbol to CodeWidth. Values at or
// above 62^7 simply produce longer strings.
func Encode(n int64) string {
	if n < 0 {
		return ""
	}

	buf := make([]byte, 0, CodeWidth)
	for n > 0 {
		buf = append(buf, alphabet[n%base])
		n /= base
	}

	for len(buf) < CodeWidth {
		buf = append(buf, alphabet[0])
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// Decode is the inverse of Encode. Leading pad symbols are harmless: they
// contribute zero to the accumulated value.
func Decode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty code: %w", ErrInvalidCode)
	}

	var n int64
	for i := 0; i < len(s); i++ {
		v := alphabetIndex[s[i]]
		if v < 0 {
			return 0, fmt.Errorf("invalid character %q: %w", s[i], ErrInvalidCode)
		}
		n = n*base + v
	}
	return n, nil
}
