// Package extract validates and normalizes document text ahead of location
// recognition. Byte-level document parsing (PDF and friends) is the
// caller's concern; this package consumes already-decoded text.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MinTextLength is the smallest extraction considered usable; anything
// shorter is treated as an empty or unreadable document.
const MinTextLength = 10

// ErrTooShort reports an empty or unusably short extraction.
var ErrTooShort = errors.New("document appears to be empty or unreadable")

var whitespaceRe = regexp.MustCompile(`\s+`)

// Text normalizes whitespace in raw document text and enforces the minimum
// length. Returns ErrTooShort (wrapped) for unusable input.
func Text(raw string) (string, error) {
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	if len(text) < MinTextLength {
		return "", fmt.Errorf("extracted %d characters: %w", len(text), ErrTooShort)
	}
	return text, nil
}
