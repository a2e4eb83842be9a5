package validation

import (
	"errors"
	"net/url"
	"strings"
)

const maxURLLength = 2048

var (
	ErrURLEmpty         = errors.New("url is required")
	ErrURLTooLong       = errors.New("url exceeds maximum length")
	ErrURLInvalidScheme = errors.New("url must use http or https")
	ErrURLNoHost        = errors.New("url must include a host")
	ErrURLBlockedHost   = errors.New("url host is not allowed")
)

// blockedHosts keeps the shortener from minting redirect loops back into
// itself or the local machine.
var blockedHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"0.0.0.0":   true,
	"::1":       true,
}

func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return ErrURLEmpty
	}
	if len(rawURL) > maxURLLength {
		return ErrURLTooLong
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ErrURLInvalidScheme
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrURLInvalidScheme
	}

	if parsed.Hostname() == "" {
		return ErrURLNoHost
	}

	if blockedHosts[strings.ToLower(parsed.Hostname())] {
		return ErrURLBlockedHost
	}

	return nil
}
