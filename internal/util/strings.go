// Package util provides shared utility functions used across the application.
package util

import (
	"strings"
)

// StripHash removes the # prefix from a hex colour string.
func StripHash(hex string) string {
	return strings.TrimPrefix(hex, "#")
}

// LiteralKey returns the lookup key for a hex literal.
// Literals compare case-insensitively; the key is the lower-cased form.
func LiteralKey(literal string) string {
	return strings.ToLower(strings.TrimSpace(literal))
}
