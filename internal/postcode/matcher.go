// Package postcode recognises strings shaped like UK postcodes. It checks
// shape only; whether the postcode exists is the journey API's problem.
package postcode

import (
	"regexp"
	"strings"
)

// Outward code: 1-2 letters, a digit, optional alphanumeric. Inward code:
// a digit and two letters, optionally space-separated.
var pattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}$`)

// Matches reports whether text looks like a UK postcode, ignoring case and
// surrounding whitespace.
func Matches(text string) bool {
	if text == "" {
		return false
	}
	return pattern.MatchString(strings.ToUpper(strings.TrimSpace(text)))
}

// Normalize returns the canonical uppercase, trimmed form used as both the
// name and display of a postcode location.
func Normalize(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}
