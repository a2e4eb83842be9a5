package validation

import "errors"

var inputErrors = []error{
	ErrURLEmpty,
	ErrURLTooLong,
	ErrURLInvalidScheme,
	ErrURLNoHost,
	ErrURLBlockedHost,
	ErrCodeTooShort,
	ErrCodeTooLong,
	ErrCodeInvalidChars,
	ErrCodeReserved,
}

// IsValidationError reports whether err is caller input the API should
// answer with a 400 rather than a 500.
func IsValidationError(err error) bool {
	for _, e := range inputErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
