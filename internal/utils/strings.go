package utils

import (
	"regexp"
	"strings"
)

// Matches local@domain.tld with no whitespace and at least one dot after
// the @. Deliberately loose; the form field is optional and this is only a
// sanity check before the address is invited to a calendar event.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeString trims whitespace from free-text input.
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail normalizes email addresses (lowercase and trim)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail performs basic email validation
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// FirstToken returns the first whitespace-separated token of s, or "" when
// s is blank.
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
