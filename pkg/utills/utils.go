package utils

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// ValidPassword reports whether s is long enough and mixes letters and digits.
func ValidPassword(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}
	return strings.IndexFunc(s, unicode.IsLetter) >= 0 && strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
