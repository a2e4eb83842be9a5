package validation

import (
	"strings"
	"testing"
)

func TestValidateURL_Valid(t *testing.T) {
	validURLs := []string{
		"http://example.com",
		"https://example.com",
		"https://example.com/path?query=1",
		"https://sub.example.com:8443/deep/path",
	}

	for _, rawURL := range validURLs {
		err := ValidateURL(rawURL)
		if err != nil {
			t.Errorf("expected '%s' to be valid, got error: %v", rawURL, err)
		}
	}
}

func TestValidateURL_Empty(t *testing.T) {
	emptyURLs := []string{"", "   "}

	for _, rawURL := range emptyURLs {
		err := ValidateURL(rawURL)
		if err != ErrURLEmpty {
			t.Errorf("expected ErrURLEmpty for '%s', got: %v", rawURL, err)
		}
	}
}

func TestValidateURL_InvalidScheme(t *testing.T) {
	invalidURLs := []string{
		"ftp://example.com",
		"javascript:alert(1)",
		"file:///etc/passwd",
		"example.com",
	}

	for _, rawURL := range invalidURLs {
		err := ValidateURL(rawURL)
		if err != ErrURLInvalidScheme {
			t.Errorf("expected ErrURLInvalidScheme for '%s', got: %v", rawURL, err)
		}
	}
}

func TestValidateURL_NoHost(t *testing.T) {
	err := ValidateURL("http://")
	if err != ErrURLNoHost {
		t.Errorf("expected ErrURLNoHost, got: %v", err)
	}
}

func TestValidateURL_BlockedHost(t *testing.T) {
	blockedURLs := []string{
		"http://localhost/admin",
		"http://localhost:8080/path",
		"https://127.0.0.1",
		"http://0.0.0.0:9000",
		"http://LOCALHOST",
	}

	for _, rawURL := range blockedURLs {
		err := ValidateURL(rawURL)
		if err != ErrURLBlockedHost {
			t.Errorf("expected ErrURLBlockedHost for '%s', got: %v", rawURL, err)
		}
	}
}

func TestValidateURL_TooLong(t *testing.T) {
	longURL := "https://example.com/" + strings.Repeat("a", 2048)

	err := ValidateURL(longURL)
	if err != ErrURLTooLong {
		t.Errorf("expected ErrURLTooLong, got: %v", err)
	}
}
