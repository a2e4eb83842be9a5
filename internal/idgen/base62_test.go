package idgen

import (
	"errors"
	"strings"
	"testing"
)

func TestEncode_Padding(t *testing.T) {
	cases := []struct {
		n        int64
		expected string
	}{
		{0, "0000000"},
		{1, "0000001"},
		{9, "0000009"},
		{10, "000000a"},
		{35, "000000z"},
		{36, "000000A"},
		{61, "000000Z"},
		{62, "0000010"},
		{3843, "00000ZZ"},
		{3844, "0000100"},
	}

	for _, tc := range cases {
		got := Encode(tc.n)
		if got != tc.expected {
			t.Errorf("Encode(%d) = '%s', expected '%s'", tc.n, got, tc.expected)
		}
	}
}

func TestEncode_Width(t *testing.T) {
	values := []int64{0, 1, 61, 62, 100000000000, 100000000001, 3521614606207}

	for _, n := range values {
		code := Encode(n)
		if len(code) < CodeWidth {
			t.Errorf("Encode(%d) = '%s', shorter than %d chars", n, code, CodeWidth)
		}
	}

	// 62^7 is the first value that needs an eighth symbol.
	if code := Encode(3521614606208); len(code) != CodeWidth+1 {
		t.Errorf("expected 8-char code for 62^7, got '%s'", code)
	}
}

func TestEncode_Negative(t *testing.T) {
	if got := Encode(-1); got != "" {
		t.Errorf("expected empty string for negative input, got '%s'", got)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 61, 62, 3843, 100000000000, 100000000001, 3521614606207}

	for _, n := range values {
		code := Encode(n)
		decoded, err := Decode(code)
		if err != nil {
			t.Errorf("Decode(Encode(%d)) returned error: %v", n, err)
			continue
		}
		if decoded != n {
			t.Errorf("Decode(Encode(%d)) = %d", n, decoded)
		}
	}
}

func TestDecode_LeadingPadIsZero(t *testing.T) {
	padded, err := Decode("0000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bare, err := Decode("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if padded != bare {
		t.Errorf("expected padded and bare codes to decode equally, got %d and %d", padded, bare)
	}
}

func TestDecode_InvalidInput(t *testing.T) {
	invalid := []string{"", "abc!", "has space", "emoji🙂", "under_score", "hy-phen"}

	for _, code := range invalid {
		if _, err := Decode(code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("expected ErrInvalidCode for '%s', got: %v", code, err)
		}
	}
}

func TestEncode_SequentialValuesDiffer(t *testing.T) {
	first := Encode(100000000000)
	second := Encode(100000000001)

	if first == second {
		t.Fatal("sequential values produced the same code")
	}
	if len(first) != CodeWidth || len(second) != CodeWidth {
		t.Errorf("expected %d-char codes, got '%s' and '%s'", CodeWidth, first, second)
	}
}

func TestEncode_CaseSensitive(t *testing.T) {
	lower, err := Decode("000000a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upper, err := Decode("000000A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lower == upper {
		t.Error("expected 'a' and 'A' to decode to different values")
	}
}

func TestAlphabet_Order(t *testing.T) {
	if !strings.HasPrefix(alphabet, "0123456789") {
		t.Error("expected digits first in the alphabet")
	}
	if alphabet[10] != 'a' || alphabet[36] != 'A' {
		t.Error("expected lowercase before uppercase in the alphabet")
	}
}
