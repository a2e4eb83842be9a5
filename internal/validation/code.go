package validation

import (
	"errors"
	"regexp"
	"strings"
)

const (
	MinCodeLength = 3
	MaxCodeLength = 16
)

var (
	ErrCodeTooShort     = errors.New("custom code must be at least 3 characters")
	ErrCodeTooLong      = errors.New("custom code must be at most 16 characters")
	ErrCodeInvalidChars = errors.New("custom code can only contain letters, numbers, hyphens, and underscores")
	ErrCodeReserved     = errors.New("custom code is reserved and cannot be used")
)

// reservedWords are path segments the router owns. Issuing them as codes
// would shadow real endpoints.
var reservedWords = map[string]bool{
	"api":     true,
	"admin":   true,
	"health":  true,
	"status":  true,
	"metrics": true,
	"stats":   true,
	"static":  true,
	"assets":  true,
	"favicon": true,
	"robots":  true,
	"sitemap": true,
	"www":     true,
	"app":     true,
	"auth":    true,
	"login":   true,
	"logout":  true,
}

var codeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateCustomCode(code string) error {
	if len(code) < MinCodeLength {
		return ErrCodeTooShort
	}
	if len(code) > MaxCodeLength {
		return ErrCodeTooLong
	}

	if !codeRegex.MatchString(code) {
		return ErrCodeInvalidChars
	}

	if reservedWords[strings.ToLower(code)] {
		return ErrCodeReserved
	}

	return nil
}
